package backtester

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileSaver — реализация сохранения результатов в JSON-файлы
type FileSaver struct {
	dir string
}

// NewFileSaver — конструктор для FileSaver; пустой dir означает текущий каталог
func NewFileSaver(dir string) *FileSaver {
	if dir == "" {
		dir = "."
	}
	return &FileSaver{dir: dir}
}

// Save пишет отчёт в <dir>/<имя входного файла>_<suffix>.json и возвращает путь
func (s *FileSaver) Save(report any, inputFilename, suffix string) (string, error) {
	baseName := strings.TrimSuffix(filepath.Base(inputFilename), filepath.Ext(inputFilename))
	outputFilename := filepath.Join(s.dir, baseName+"_"+suffix+".json")

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "marshal %s report", suffix)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %s", s.dir)
	}
	if err := os.WriteFile(outputFilename, jsonData, 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", outputFilename)
	}
	return outputFilename, nil
}
