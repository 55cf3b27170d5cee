package orders

import (
	"log"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/models"
)

// Group : une commande reconstituée à partir de ses lignes plates. L'entête
// (client, statut, paiement, total) vient de la première ligne rencontrée
// dans l'ordre d'entrée — toutes les lignes d'une commande portent les mêmes
// valeurs d'entête.
type Group struct {
	OrderID          string             `json:"orderId"`
	UserEmail        string             `json:"userEmail"`
	Status           string             `json:"status"`
	Timestamp        time.Time          `json:"timestamp"`
	PaymentMethod    string             `json:"paymentMethod"`
	TotalOrderAmount float64            `json:"totalOrderAmount"`
	OrderNotes       string             `json:"orderNotes,omitempty"`
	Lines            []models.OrderLine `json:"lines"`
	// StoreTotalAmount : somme prix×quantité des seules lignes retenues par
	// le filtre boutique. Égal à la somme de toutes les lignes si pas de filtre.
	StoreTotalAmount float64 `json:"storeTotalAmount"`
}

// Aggregate regroupe des lignes plates en commandes.
//
// productOwners associe chaque produit à l'email de sa boutique ; si
// storeEmail est non vide, seules les lignes dont le produit appartient à
// cette boutique sont retenues, et les commandes sans aucune ligne retenue
// disparaissent du résultat. Les lignes sans orderId sont malformées :
// ignorées et loggées, jamais fatales.
//
// Le résultat est trié par date décroissante (commandes récentes d'abord).
func Aggregate(lines []models.OrderLine, productOwners map[gocql.UUID]string, storeEmail string) []Group {
	groups := make(map[string]*Group)
	var order []string // ordre de première apparition

	for _, l := range lines {
		if l.OrderID == "" {
			log.Printf("⚠️ Ligne de commande sans orderId (ligne %s), ignorée", l.LineID)
			continue
		}
		if storeEmail != "" && productOwners[l.ProductID] != storeEmail {
			continue
		}

		g, ok := groups[l.OrderID]
		if !ok {
			g = &Group{
				OrderID:          l.OrderID,
				UserEmail:        l.UserEmail,
				Status:           l.Status,
				Timestamp:        l.Timestamp,
				PaymentMethod:    l.PaymentMethod,
				TotalOrderAmount: l.TotalOrderAmount,
				OrderNotes:       l.OrderNotes,
			}
			groups[l.OrderID] = g
			order = append(order, l.OrderID)
		}
		g.Lines = append(g.Lines, l)
		g.StoreTotalAmount += l.Price * float64(l.Quantity)
	}

	result := make([]Group, 0, len(order))
	for _, id := range order {
		result = append(result, *groups[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}
