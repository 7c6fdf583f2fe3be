package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// RoleUniversity is the only role issued today. It marks tokens belonging to
// an approved institute account.
const RoleUniversity = "university"

// Claims includes the registered JWT claims plus the authenticated
// institute id and its role.
type Claims struct {
	jwt.RegisteredClaims
	InstituteID string
	Role        string
}

func GenerateToken(instituteID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		InstituteID: instituteID,
		Role:        RoleUniversity,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetInstituteIDFromToken validates the token and returns the institute id
// stored in its claims. Expired tokens map to common.ErrTokenExpired, any
// other validation failure to common.ErrInvalidToken.
func GetInstituteIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Role != RoleUniversity {
		return "", common.ErrInvalidToken
	}

	return claims.InstituteID, nil
}
