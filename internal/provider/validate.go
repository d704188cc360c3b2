// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Boundary validation of provider snapshots.

package provider

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate rejects snapshots with negative counts, distinctMonthCount < 1,
// non-finite values, empty names or duplicate ids. Errors wrap ErrInvalidSnapshot.
func Validate(s Snapshot) error {
	var problems []string
	if err := validatorInstance().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), tagWithParam(fe)))
		}
	}
	seen := make(map[int64]struct{}, len(s.Districts))
	for i, d := range s.Districts {
		if _, dup := seen[d.ID]; dup {
			problems = append(problems, fmt.Sprintf("districts[%d] duplicates districtId %d", i, d.ID))
		}
		seen[d.ID] = struct{}{}
		if d.PopulationDensity != nil && !finite(*d.PopulationDensity) {
			problems = append(problems, fmt.Sprintf("districts[%d].populationDensity must be finite", i))
		}
		if !finite(d.MonthlyExpenseTotal) {
			problems = append(problems, fmt.Sprintf("districts[%d].monthlyExpenseTotal must be finite", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(problems, "; "))
	}
	return nil
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
