package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"carrito/db"
	"carrito/middleware"
	"carrito/models"
	"carrito/utils"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	sessionHash = "sesiones"
	minPassword = 6
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service authenticates merchants: email+password over bcrypt, JWT access
// tokens, hashed refresh tokens, and a Redis session cache.
type Service struct {
	DB     *db.DB
	Rdx    *redis.Client
	Secret []byte
}

func NewService(database *db.DB, rdx *redis.Client, secret []byte) *Service {
	return &Service{DB: database, Rdx: rdx, Secret: secret}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func sendAuthError(w http.ResponseWriter, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = errCode(CodeInternal)
	}
	utils.RespondWithJSON(w, ae.Status(), map[string]string{
		"code":  string(ae.Code),
		"error": ae.Message(),
	})
}

func validateCredentials(c credentials) error {
	if !emailRe.MatchString(c.Email) {
		return errCode(CodeInvalidEmail)
	}
	if len(c.Password) < minPassword {
		return errCode(CodeWeakPassword)
	}
	return nil
}

// Register creates a merchant account.
func (s *Service) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendAuthError(w, errCode(CodeInvalidEmail))
		return
	}
	if err := validateCredentials(input); err != nil {
		sendAuthError(w, err)
		return
	}

	err := s.DB.Usuarios.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		sendAuthError(w, errCode(CodeEmailInUse))
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Println("register lookup error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("register hash error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	user := models.Usuario{
		UserID:    "t" + utils.GenerateRandomString(10),
		Email:     input.Email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.DB.Usuarios.InsertOne(ctx, user); err != nil {
		log.Println("register insert error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	utils.SendResponse(w, http.StatusCreated, map[string]string{"userid": user.UserID}, "Cuenta creada", nil)
}

// Login verifies credentials and issues the token pair.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendAuthError(w, errCode(CodeInvalidCredentials))
		return
	}

	var stored models.Usuario
	err := s.DB.Usuarios.FindOne(ctx, bson.M{"email": input.Email}).Decode(&stored)
	if err != nil {
		sendAuthError(w, errCode(CodeInvalidCredentials))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(input.Password)); err != nil {
		sendAuthError(w, errCode(CodeInvalidCredentials))
		return
	}

	token, err := s.issueAccessToken(stored)
	if err != nil {
		log.Println("login token error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		log.Println("login refresh error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	_, err = s.DB.Usuarios.UpdateOne(ctx,
		bson.M{"userid": stored.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(refresh),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
			"lastLogin":      time.Now(),
		}},
	)
	if err != nil {
		log.Println("login refresh store error:", err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	if err := s.Rdx.HSet(ctx, sessionHash, stored.UserID, token).Err(); err != nil {
		log.Printf("session cache failed for %s: %v", stored.UserID, err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":        token,
		"refreshToken": refresh,
		"userid":       stored.UserID,
		"email":        stored.Email,
	}, "Sesión iniciada", nil)
}

// Logout invalidates the cached session.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.Rdx.HDel(ctx, sessionHash, userID).Err(); err != nil {
		log.Printf("session remove failed for %s: %v", userID, err)
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Sesión cerrada", nil)
}

// RefreshToken extends a session that is close to expiry.
func (s *Service) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	authz := middleware.NewAuthenticator(s.Secret)
	claims, err := authz.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if time.Until(claims.ExpiresAt.Time) > 30*time.Minute {
		http.Error(w, "Token refresh not allowed yet", http.StatusForbidden)
		return
	}

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(accessTokenTTL))
	newToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		sendAuthError(w, errCode(CodeInternal))
		return
	}

	if err := s.Rdx.HSet(ctx, sessionHash, claims.UserID, newToken).Err(); err != nil {
		log.Printf("session cache failed for %s: %v", claims.UserID, err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{"token": newToken}, "Token renovado", nil)
}

func (s *Service) issueAccessToken(user models.Usuario) (string, error) {
	claims := &middleware.Claims{
		Email:  user.Email,
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
