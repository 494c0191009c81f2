package authorization

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_service/domain"
)

func jwtKey() []byte {
	return []byte(os.Getenv("SECRET_KEY"))
}

func GenerateJWT(user *domain.User) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, jwtKey())
	if err != nil {
		log.Println(err)
		return "", err
	}

	builder := jwt.NewBuilder(signer)

	claims := &domain.Claims{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(time.Minute * 60),
	}

	token, err := builder.Build(claims)
	if err != nil {
		log.Println(err)
		return "", err
	}

	return token.String(), nil
}

func parseToken(tokenString string) (*jwt.Token, *jwt.HSAlg, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, jwtKey())
	if err != nil {
		return nil, nil, err
	}
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
		return nil, nil, err
	}
	return token, verifier, nil
}

// ExtractActor resolves the authenticated identity from the request's bearer
// token. Handlers behind the casbin gate can rely on it succeeding.
func ExtractActor(r *http.Request) (domain.Actor, error) {
	claims, err := extractClaims(r)
	if err != nil {
		return domain.Actor{}, err
	}

	if claims.ExpiresAt.Before(time.Now()) {
		return domain.Actor{}, errors.New("token has expired")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return domain.Actor{}, errors.New("invalid user id in token")
	}

	return domain.Actor{UserID: userID, Role: claims.Role}, nil
}

// ExtractRole returns the caller's role, or "Unauthenticated" when no bearer
// token is present. Used by the casbin gate so public routes stay reachable.
func ExtractRole(r *http.Request) (string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "Unauthenticated", nil
	}

	claims, err := extractClaims(r)
	if err != nil {
		return "", err
	}

	if claims.ExpiresAt.Before(time.Now()) {
		return "", errors.New("token has expired")
	}

	return string(claims.Role), nil
}

func extractClaims(r *http.Request) (*domain.Claims, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return nil, errors.New("missing authorization header")
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return nil, errors.New("invalid token format")
	}

	token, verifier, err := parseToken(bearerToken[1])
	if err != nil {
		return nil, err
	}

	var claims domain.Claims
	err = jwt.ParseClaims(token.Bytes(), verifier, &claims)
	if err != nil {
		log.Println(err)
		return nil, err
	}

	return &claims, nil
}
