package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de sesión.
const (
	KindUser   = "user"   // cuenta de usuario (email + password)
	KindAccess = "access" // sesión abierta con un código de acceso de cliente
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Los roles no viajan en el token: se consultan en cada petición que los requiere.
type Claims struct {
	jwt.RegisteredClaims
	Kind     string `json:"kind"`
	UserID   string `json:"user_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// GenerateUser firma un token de sesión para una cuenta de usuario.
func GenerateUser(secret, userID, issuer string, expMinutes int) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("jwt: user_id vacío")
	}
	return sign(secret, Claims{Kind: KindUser, UserID: userID}, userID, issuer, expMinutes)
}

// GenerateAccess firma un token de sesión ligado al cliente de un código de acceso.
func GenerateAccess(secret, clientID, issuer string, expMinutes int) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("jwt: client_id vacío")
	}
	return sign(secret, Claims{Kind: KindAccess, ClientID: clientID}, "client:"+clientID, issuer, expMinutes)
}

func sign(secret string, claims Claims, subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	switch claims.Kind {
	case KindUser:
		if claims.UserID == "" {
			return nil, fmt.Errorf("claims inválidos: user_id vacío")
		}
	case KindAccess:
		if claims.ClientID == "" {
			return nil, fmt.Errorf("claims inválidos: client_id vacío")
		}
	default:
		return nil, fmt.Errorf("claims inválidos: tipo de sesión %q", claims.Kind)
	}
	return claims, nil
}
