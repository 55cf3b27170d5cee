package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/cache"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/ratings"
	"greenbag_back_end/internal/services"
)

// Dépendances câblées au démarrage (cmd/server).
var (
	Ratings  *ratings.Service
	Products database.ProductStore
	Reviews  database.ReviewStore
)

// HomePage : le catalogue complet trié par note moyenne décroissante,
// produits sans avis en queue avec la sentinelle (0, 0).
func HomePage(c *gin.Context) {
	rated, err := Ratings.HomePage(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": rated, "count": len(rated)})
}

// GetProduct retourne la fiche produit avec sa note moyenne et l'URL signée
// de son image.
func GetProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := cache.GetProductFromCache(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	summary, err := Ratings.Average(c.Request.Context(), id)
	if err != nil {
		// La fiche reste servie, la note retombe sur la sentinelle.
		log.Printf("⚠️ Note moyenne indisponible pour %s: %v", id, err)
		summary = ratings.Summary{}
	}

	imageURL := ""
	if p.ImageKey != "" {
		if u, err := services.SignedImageURL(c.Request.Context(), p.ImageKey, 15*time.Minute); err == nil {
			imageURL = u
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"product":       p,
		"imageUrl":      imageURL,
		"averageRating": summary.Average,
		"reviewCount":   summary.Count,
	})
}

// SearchProducts recherche dans l'index Elasticsearch.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre q manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
