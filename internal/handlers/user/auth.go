package user

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/localstore"
	"greenbag_back_end/internal/models"
	"greenbag_back_end/internal/syncstore"
	"greenbag_back_end/internal/utils"
)

// Dépendances câblées au démarrage (cmd/server).
var (
	Sync  *syncstore.Synchronizer
	Local *localstore.Store
	Users database.UserStore
)

// ================== AUTH LOCALE ==================

// Signup crée un compte client. L'écriture est locale d'abord puis cloud ;
// une sync cloud en échec renvoie 207 avec le compte créé et l'avertissement.
func Signup(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// email déjà pris ?
	if _, err := Users.GetByEmail(c.Request.Context(), input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("❌ Vérification email impossible: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	u := models.User{
		Email:       input.Email,
		Password:    hashed,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Role:        models.RoleUser,
		CreatedAt:   time.Now(),
	}

	err = Sync.CreateUser(c.Request.Context(), u)
	token, _ := utils.GenerateJWT(u)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
	case errors.As(err, &partial):
		// Compte utilisable localement, la sync cloud sera réconciliée.
		c.JSON(apperrors.HTTPStatus(err), gin.H{"user": u, "token": token, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// Signin vérifie les identifiants contre le cloud, avec repli sur le miroir
// local quand le cloud est injoignable (connexion hors-ligne).
func Signin(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := Users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("⚠️ Cloud injoignable au login, repli local: %v", err)
		u, err = Local.GetUser(input.Email)
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuth.Error()})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, u.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrAuth.Error()})
		return
	}

	// Rafraîchir le miroir local avec l'état cloud du compte.
	if err := Local.PutUser(*u); err != nil {
		log.Printf("⚠️ Miroir local non rafraîchi pour %s: %v", u.Email, err)
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion de %s (%s)", u.Email, u.Role)
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}
