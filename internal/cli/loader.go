package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/johngalambos/Fable/internal/diag"
	"github.com/johngalambos/Fable/internal/precomp"
)

// LoadMode controls how errors are handled while loading artifacts.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedArtifact is one file-map artifact read off disk.
type LoadedArtifact struct {
	Path    string
	Stamp   precomp.Stamp
	Stamped bool // false when the artifact was created but never saved
	Map     *precomp.Map
}

// LoadResult contains the artifacts loaded from a set of paths.
type LoadResult struct {
	Artifacts []LoadedArtifact
	FileCount int
}

// LoadError is an error that occurred while loading an artifact.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadArtifacts opens each file-map artifact and reads its stamp and
// entries. If mode is LoadModeFailFast, returns on first error. If
// mode is LoadModeCollectAll, keeps going and reports every failure.
func LoadArtifacts(ctx context.Context, paths []string, mode LoadMode) (*LoadResult, []error) {
	var errs []error
	result := &LoadResult{}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Message: "artifact not found", Path: path})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}

		loaded, err := readArtifact(ctx, path)
		if err != nil {
			errs = append(errs, convertDiagError(err, path))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}

		result.Artifacts = append(result.Artifacts, loaded)
		result.FileCount++
	}

	if result.FileCount == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoFiles, Message: "no artifacts to load"})
	}
	return result, errs
}

// readArtifact opens one artifact and pulls its stamp and map into
// memory, closing the database before returning.
func readArtifact(ctx context.Context, path string) (LoadedArtifact, error) {
	art, err := precomp.Open(path)
	if err != nil {
		return LoadedArtifact{}, err
	}
	defer art.Close()

	stamp, stamped, err := art.ReadStamp(ctx)
	if err != nil {
		return LoadedArtifact{}, err
	}
	m, err := art.Load(ctx)
	if err != nil {
		return LoadedArtifact{}, err
	}
	return LoadedArtifact{Path: path, Stamp: stamp, Stamped: stamped, Map: m}, nil
}

// convertDiagError converts a lowering diagnostic to a LoadError with
// the unified CLI code.
func convertDiagError(err error, path string) *LoadError {
	var de *diag.Error
	if errors.As(err, &de) {
		return &LoadError{
			Code:    MapDiagToErrorCode(de.Code),
			Message: de.Message,
			Path:    path,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // nothing found to process
	ErrCodeLoadFailed  = "E004" // scenario or options file failed to parse
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeBadOptions  = "E006" // options failed validation
	ErrCodeWriteFailed = "E007" // file write error
	ErrCodeTestFailed  = "E008" // one or more scenarios failed

	// Lowering diagnostics, by family
	ErrCodeLowering    = "E101" // expression lowering failed
	ErrCodeTraits      = "E102" // trait resolution failed
	ErrCodeInline      = "E103" // inline expansion failed
	ErrCodeAggregate   = "E104" // declaration aggregation failed
	ErrCodePersistence = "E105" // file-map artifact error
	ErrCodeValidation  = "E106" // lowered file failed validation
)

// MapDiagToErrorCode maps a lowering diagnostic code to its CLI error
// code family.
func MapDiagToErrorCode(code diag.Code) string {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "L1"):
		return ErrCodeLowering
	case strings.HasPrefix(s, "L2"):
		return ErrCodeTraits
	case strings.HasPrefix(s, "L3"):
		return ErrCodeInline
	case strings.HasPrefix(s, "A3"):
		return ErrCodeAggregate
	case strings.HasPrefix(s, "P1"):
		return ErrCodePersistence
	default:
		return ErrCodeGeneric
	}
}
