package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Roles carried by tokens.
const (
	RoleSuperAdmin  = "super_admin"
	RoleSchoolAdmin = "admin"
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// Claims is the single wire shape for all roles. Only the fields relevant to
// the role are set; the auth middleware decodes them into a typed context
// once, at the gateway, so handlers never branch on optional fields.
type Claims struct {
	Role         string `json:"role"`
	SchoolID     uint   `json:"school_id,omitempty"`
	UserID       uint   `json:"user_id,omitempty"`
	StudentID    uint   `json:"student_id,omitempty"`
	EnrollmentID uint   `json:"enrollment_id,omitempty"`
	TeacherID    uint   `json:"teacher_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token operations
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
	}
}

func (j *JWTManager) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.config.Expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    j.config.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.Secret))
}

// GenerateSuperAdminToken issues a platform-admin token carrying no tenant.
func (j *JWTManager) GenerateSuperAdminToken() (string, error) {
	return j.sign(Claims{Role: RoleSuperAdmin})
}

// GenerateSchoolAdminToken issues a tenant-scoped admin token.
func (j *JWTManager) GenerateSchoolAdminToken(schoolID uint) (string, error) {
	return j.sign(Claims{Role: RoleSchoolAdmin, SchoolID: schoolID})
}

// GenerateStudentToken issues a token for one student profile. EnrollmentID
// points at the student's latest active enrollment.
func (j *JWTManager) GenerateStudentToken(schoolID, userID, studentID, enrollmentID uint) (string, error) {
	return j.sign(Claims{
		Role:         RoleStudent,
		SchoolID:     schoolID,
		UserID:       userID,
		StudentID:    studentID,
		EnrollmentID: enrollmentID,
	})
}

// GenerateTeacherToken issues a tenant-scoped teacher token.
func (j *JWTManager) GenerateTeacherToken(schoolID, teacherID uint) (string, error) {
	return j.sign(Claims{Role: RoleTeacher, SchoolID: schoolID, TeacherID: teacherID})
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(j.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
