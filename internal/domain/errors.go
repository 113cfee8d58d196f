package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCompetitorConfiguration = errors.New("invalid competitor configuration")
	ErrScheduleInfeasible             = errors.New("schedule infeasible")
	ErrPromotionSizeMismatch          = errors.New("promotion size mismatch")
	ErrCompetitorNotFound             = errors.New("competitor not found")
)

type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("competitor %q was not found", e.Name)
	}
	return fmt.Sprintf("competitor %q was not found, did you mean: %s", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrCompetitorNotFound
}
