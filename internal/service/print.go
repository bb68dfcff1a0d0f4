package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/printer"
	"github.com/printmate/printmate/internal/validation"
)

const PrintSuccessMessage = "Print job sent successfully"

// Dispatcher submits a file URL to the print backend.
type Dispatcher interface {
	Submit(ctx context.Context, fileURL string) (*model.PrintAck, error)
}

type PrintService struct {
	dispatcher  Dispatcher
	fileService *FileService
}

func NewPrintService(dispatcher Dispatcher, fileService *FileService) *PrintService {
	return &PrintService{
		dispatcher:  dispatcher,
		fileService: fileService,
	}
}

// Print resolves the requested file URL for ownerID and forwards it to the backend.
// A file ID takes precedence over a raw URL.
func (s *PrintService) Print(ctx context.Context, ownerID string, req model.PrintRequest) (*model.PrintAck, error) {
	fileURL := strings.TrimSpace(req.FileURL)

	if id := strings.TrimSpace(req.FileID); id != "" {
		file, err := s.fileService.File(ctx, ownerID, id)
		if err != nil {
			printJobsTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		fileURL = file.URL
	}

	err := validation.ValidateFileURL(fileURL)
	if err != nil {
		printJobsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	_, err = s.dispatcher.Submit(ctx, fileURL)
	if err != nil {
		var backendErr *printer.BackendError
		if errors.As(err, &backendErr) {
			printJobsTotal.WithLabelValues("rejected").Inc()
		} else {
			printJobsTotal.WithLabelValues("failed").Inc()
		}
		slog.Error("print dispatch failed", "user_id", ownerID, "error", err)
		return nil, err
	}

	printJobsTotal.WithLabelValues("ok").Inc()
	slog.Info("print job sent", "user_id", ownerID)
	return &model.PrintAck{Message: PrintSuccessMessage}, nil
}
