package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bizhealth/reportgen/consts"
	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/errors"
	"github.com/bizhealth/reportgen/pkg/logger"
)

// OutputPaths returns the HTML and metadata paths a build writes in dir
func OutputPaths(dir string) (htmlPath, metaPath string) {
	base := consts.ReportTypeComprehensive
	return filepath.Join(dir, base+consts.HTMLFileSuffix), filepath.Join(dir, base+consts.MetaFileSuffix)
}

// writeReport persists the document and its metadata sidecar.
// Existing files are overwritten. A metadata failure leaves the HTML in place.
func writeReport(dir, html string, meta model.ReportMeta) (htmlPath, metaPath string, err error) {
	htmlPath, metaPath = OutputPaths(dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWrite, "failed to create output directory", err)
	}

	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWrite, "failed to write report HTML", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInternal, "failed to encode report metadata", err)
	}
	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeWrite, "failed to write report metadata", err)
	}

	logger.Debug("Report files written",
		zap.String("html_path", htmlPath),
		zap.String("meta_path", metaPath),
		zap.Int("html_bytes", len(html)),
	)
	return htmlPath, metaPath, nil
}

// ReadMeta loads a metadata sidecar written by a previous build
func ReadMeta(path string) (*model.ReportMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound("report metadata")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read report metadata", err)
	}
	var meta model.ReportMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to decode report metadata", err)
	}
	return &meta, nil
}
