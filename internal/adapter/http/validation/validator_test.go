package validation

import (
	"testing"

	. "github.com/onsi/gomega"

	"todoapi/internal/core/model/request"
)

func ptr[T any](v T) *T {
	return &v
}

func TestValidator_CreateTodoRequest(t *testing.T) {
	RegisterTestingT(t)
	v := NewValidator()

	t.Run("missing title", func(t *testing.T) {
		err := v.ValidateStruct(request.CreateTodoRequest{})
		errs := v.FormatValidationErrors(err)

		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Field).To(Equal("title"))
		Expect(errs[0].Message).To(Equal("Title is required"))
	})

	t.Run("blank title", func(t *testing.T) {
		err := v.ValidateStruct(request.CreateTodoRequest{Title: ptr("   ")})
		errs := v.FormatValidationErrors(err)

		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Message).To(Equal("Title is required"))
	})

	t.Run("valid title", func(t *testing.T) {
		Expect(v.ValidateStruct(request.CreateTodoRequest{Title: ptr(" A ")})).To(Succeed())
	})
}

func TestValidator_UpdateTodoRequest(t *testing.T) {
	RegisterTestingT(t)
	v := NewValidator()

	t.Run("omitted title is fine", func(t *testing.T) {
		Expect(v.ValidateStruct(request.UpdateTodoRequest{})).To(Succeed())
	})

	t.Run("blank title", func(t *testing.T) {
		err := v.ValidateStruct(request.UpdateTodoRequest{Title: ptr("")})
		errs := v.FormatValidationErrors(err)

		Expect(errs).To(HaveLen(1))
		Expect(errs[0].Message).To(Equal("Title cannot be empty"))
	})

	t.Run("non validator errors format to nothing", func(t *testing.T) {
		Expect(v.FormatValidationErrors(nil)).To(BeEmpty())
	})
}

func TestNewValidator_RegistersCustomRules(t *testing.T) {
	RegisterTestingT(t)

	Expect(func() { NewValidator() }).NotTo(Panic())

	v := NewValidator()
	Expect(v.translator.T("filled", "Title")).To(Equal("Title is required"))
	Expect(v.translator.T("notblank", "Title")).To(Equal("Title cannot be empty"))
}
