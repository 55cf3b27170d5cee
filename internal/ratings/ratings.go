package ratings

import (
	"sort"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/models"
)

// Summary : moyenne arithmétique de la note globale d'un produit. Les notes
// carbone et éco sont affichées par avis mais n'entrent pas dans la moyenne.
// Un produit sans avis vaut (0, 0) — la sentinelle, jamais une erreur.
type Summary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"reviewCount"`
}

// Summarize calcule la moyenne par produit sur la note globale uniquement.
func Summarize(reviews []models.Review) map[gocql.UUID]Summary {
	sums := make(map[gocql.UUID]int)
	counts := make(map[gocql.UUID]int)
	for _, r := range reviews {
		sums[r.ProductID] += r.Rating
		counts[r.ProductID]++
	}

	summaries := make(map[gocql.UUID]Summary, len(counts))
	for id, count := range counts {
		summaries[id] = Summary{
			Average: float64(sums[id]) / float64(count),
			Count:   count,
		}
	}
	return summaries
}

// SummarizeOne calcule la moyenne des avis d'un seul produit. Sans avis,
// la sentinelle (0, 0).
func SummarizeOne(reviews []models.Review) Summary {
	if len(reviews) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return Summary{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}

// Rated : un produit du catalogue avec sa note agrégée, prêt pour la page
// d'accueil.
type Rated struct {
	Product models.Product `json:"product"`
	Summary
}

// Rank trie les produits par note moyenne décroissante. À note égale
// (y compris les produits sans avis, tous à zéro), l'ordre est alphabétique
// sur le nom pour rester stable d'un affichage à l'autre.
func Rank(products []models.Product, summaries map[gocql.UUID]Summary) []Rated {
	rated := make([]Rated, 0, len(products))
	for _, p := range products {
		rated = append(rated, Rated{Product: p, Summary: summaries[p.ID]})
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].Average != rated[j].Average {
			return rated[i].Average > rated[j].Average
		}
		return rated[i].Product.Name < rated[j].Product.Name
	})
	return rated
}
