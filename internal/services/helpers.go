package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hr-portal/internal/blob"
	"hr-portal/internal/metrics"
	"hr-portal/internal/notify"
	"hr-portal/internal/storage"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// mapRepoError maps storage errors to service errors
func mapRepoError(err error, operation string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrInvalidReference) {
		return fmt.Errorf("%w: %s (%v)", ErrNotFound, operation, err)
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrDuplicate, operation, err)
	}
	log.Printf("Unexpected repository error during %s: %v", operation, err)
	return fmt.Errorf("%w: %s: %w", ErrStore, operation, err)
}

// mapBlobError maps blob store errors to service errors
func mapBlobError(err error, operation string) error {
	if errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, blob.ErrInvalidPath) {
		return fmt.Errorf("%w: %s: %v", ErrValidation, operation, err)
	}
	log.Printf("Unexpected blob store error during %s: %v", operation, err)
	return fmt.Errorf("%w: %s: %w", ErrStore, operation, err)
}

// validateStruct runs the validator and wraps failures in ErrValidation while
// keeping the field errors reachable through errors.As.
func validateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %w", ErrValidation, fieldErrs)
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// publish sends a notification. Failures are logged and never returned to
// the caller of the primary operation.
func publish(ctx context.Context, notifier notify.Publisher, event notify.Event) {
	if notifier == nil {
		return
	}
	err := notifier.Publish(context.WithoutCancel(ctx), event)
	metrics.RecordNotification(string(event.Type), err)
	if err != nil {
		log.Printf("Error publishing %s notification: %v", event.Type, err)
	}
}

var documentTypes = map[string]bool{"pdf": true, "doc": true, "docx": true}

// checkDocument accepts PDF and Word uploads.
func checkDocument(file *blob.File) error {
	if file == nil || file.Content == nil {
		return validationError("no file provided")
	}
	if !documentTypes[blob.Extension(file.Name)] {
		return validationError("%q must be a PDF, DOC or DOCX file", file.Name)
	}
	return nil
}

// safeFileName keeps the base name of an uploaded file and drops anything
// that could escape its directory.
func safeFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
