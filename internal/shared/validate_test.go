package shared

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Email string  `json:"email" validate:"required,email"`
	Score float64 `json:"score" validate:"gte=0,lte=1"`
	Kind  string  `json:"kind" validate:"omitempty,oneof=A B"`
	Note  string  `validate:"max=3"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		if err := Validate(sample{Email: "a@b.co", Score: 0.5, Kind: "A"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		err := Validate(sample{Email: "nope", Score: 2, Kind: "C", Note: "long"})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}

		for _, want := range []string{
			"email: invalid email format",
			"score: must be less than or equal to 1",
			"kind: must be one of: A B",
			"Note: must be at most 3 characters",
		} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %q", want, err.Error())
			}
		}
	})

	t.Run("non-struct input", func(t *testing.T) {
		if err := Validate(42); !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}
