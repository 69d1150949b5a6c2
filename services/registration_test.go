package services

import (
	"testing"

	"github.com/vidyasetu/school-api/model"
)

func TestClassifyPhoneCheck(t *testing.T) {
	student := &model.Student{ID: 1, Status: model.StudentStatusActive}
	active := []model.Enrollment{{ID: 1, StudentID: 1, ClassID: 2, IsActive: true}}

	cases := []struct {
		name        string
		userExists  bool
		student     *model.Student
		enrollments []model.Enrollment
		want        CheckPhoneStatus
	}{
		{"unknown phone", false, nil, nil, CheckStatusNeedsUser},
		{"user without profile", true, nil, nil, CheckStatusNeedsStudent},
		{"profile without enrollment", true, student, nil, CheckStatusNeedsEnrollment},
		{"profile with empty enrollment slice", true, student, []model.Enrollment{}, CheckStatusNeedsEnrollment},
		{"enrolled", true, student, active, CheckStatusAlreadyEnrolled},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyPhoneCheck(c.userExists, c.student, c.enrollments)
			if got != c.want {
				t.Errorf("ClassifyPhoneCheck = %q, want %q", got, c.want)
			}
		})
	}
}
