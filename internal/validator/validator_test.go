package validator

import (
	"strings"
	"testing"
)

func TestValidator_CourseCreateRequest(t *testing.T) {
	v := New()

	valid := func() CourseCreateRequest {
		return CourseCreateRequest{
			Number:       493,
			Subject:      "CS",
			Title:        "Cloud Application Development",
			Term:         "fa26",
			InstructorID: 10,
		}
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		if errs := v.Validate(&req); errs != nil {
			t.Errorf("Validate() = %v, want nil", errs)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*CourseCreateRequest)
		wantField string
	}{
		{name: "missing subject", mutate: func(r *CourseCreateRequest) { r.Subject = "" }, wantField: "subject"},
		{name: "missing title", mutate: func(r *CourseCreateRequest) { r.Title = "" }, wantField: "title"},
		{name: "zero number", mutate: func(r *CourseCreateRequest) { r.Number = 0 }, wantField: "number"},
		{name: "missing instructor", mutate: func(r *CourseCreateRequest) { r.InstructorID = 0 }, wantField: "instructorid"},
		{name: "overlong subject", mutate: func(r *CourseCreateRequest) { r.Subject = strings.Repeat("x", 65) }, wantField: "subject"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			errs := v.Validate(&req)
			if errs == nil {
				t.Fatal("Validate() = nil, want errors")
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("failed field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidator_LoginRequest(t *testing.T) {
	v := New()

	if errs := v.Validate(&LoginRequest{Username: "jdoe", Password: "x"}); errs != nil {
		t.Errorf("Validate() = %v, want nil", errs)
	}

	errs := v.Validate(&LoginRequest{Username: "jdoe"})
	if errs == nil {
		t.Fatal("Validate() = nil, want errors for missing password")
	}
	if !strings.Contains(errs.Error(), "password") {
		t.Errorf("Error() = %q, want mention of password", errs.Error())
	}
}
