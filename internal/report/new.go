package report

import "github.com/nguyentantai21042004/repurpose/internal/logger"

type implExporter struct {
	logger logger.Logger
}

// New creates an Exporter producing Markdown and DOCX reports
func New(log logger.Logger) Exporter {
	return &implExporter{logger: log}
}
