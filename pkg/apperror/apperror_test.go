package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusBadRequest},
		{CodeDependentsExist, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeForbidden, http.StatusForbidden},
		{CodeUnauthorized, http.StatusUnauthorized},
		{Code("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestValidationEmptyIsNil(t *testing.T) {
	if err := Validation(map[string]string{}); err != nil {
		t.Fatalf("Validation(empty) = %v, want nil", err)
	}
	err := Validation(map[string]string{"name": "bad", "code": "worse"})
	if !HasCode(err, CodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
	if got, want := err.Error(), "Validation failed (code: worse; name: bad)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("Game"))
	ae, ok := As(err)
	if !ok || ae.Code != CodeNotFound || ae.Message != "Game not found" {
		t.Fatalf("As() = %+v, %v", ae, ok)
	}
	if !errors.Is(err, New(CodeNotFound, "")) {
		t.Error("errors.Is should match by code")
	}
}

func TestDependentsExist(t *testing.T) {
	err := DependentsExist(3, "games")
	if err.Message != "Cannot delete: 3 associated games exist" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   error
		code Code
	}{
		{"duplicate", gorm.ErrDuplicatedKey, CodeConflict},
		{"foreign key", gorm.ErrForeignKeyViolated, CodeConflict},
		{"not found", gorm.ErrRecordNotFound, CodeNotFound},
		{"already domain", Forbidden(""), CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromDB(tt.in); !HasCode(got, tt.code) {
				t.Errorf("FromDB(%v) = %v, want code %s", tt.in, got, tt.code)
			}
		})
	}

	plain := errors.New("disk on fire")
	if got := FromDB(plain); got != plain {
		t.Errorf("unknown errors must pass through, got %v", got)
	}
	if FromDB(nil) != nil {
		t.Error("FromDB(nil) must be nil")
	}
}
