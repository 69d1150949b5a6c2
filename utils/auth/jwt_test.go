package auth

import (
	"testing"
	"time"
)

func newTestManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: expiry,
		Issuer: "school-api-test",
	})
}

func TestStudentTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.GenerateStudentToken(3, 7, 11, 19)
	if err != nil {
		t.Fatalf("GenerateStudentToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.Role != RoleStudent {
		t.Errorf("Role = %q, want %q", claims.Role, RoleStudent)
	}
	if claims.SchoolID != 3 || claims.UserID != 7 || claims.StudentID != 11 || claims.EnrollmentID != 19 {
		t.Errorf("unexpected identifiers: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("token has no JTI")
	}
}

func TestSuperAdminTokenCarriesNoTenant(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.GenerateSuperAdminToken()
	if err != nil {
		t.Fatalf("GenerateSuperAdminToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.Role != RoleSuperAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleSuperAdmin)
	}
	if claims.SchoolID != 0 {
		t.Errorf("SchoolID = %d, want 0", claims.SchoolID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour, Issuer: "school-api-test"})

	token, err := m.GenerateSchoolAdminToken(1)
	if err != nil {
		t.Fatalf("GenerateSchoolAdminToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateToken with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateSchoolAdminToken(1)
	if err != nil {
		t.Fatalf("GenerateSchoolAdminToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("ValidateToken on expired token: err = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	if _, err := m.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("ValidateToken on garbage: err = %v, want ErrInvalidToken", err)
	}
}
