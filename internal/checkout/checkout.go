package checkout

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

type Catalog interface {
	Get(ctx context.Context, id gocql.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id gocql.UUID, storeEmail string, n int) (int, error)
}

type Cart interface {
	ListByUser(ctx context.Context, email string) ([]models.CartLine, error)
}

type Orders interface {
	PlaceBatch(ctx context.Context, lines []models.OrderLine, cart []models.CartLine) error
}

type Cards interface {
	Save(ctx context.Context, c models.StoredCard) error
}

// Payments crée l'intention de paiement Stripe pour le règlement par carte.
type Payments interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, receiptEmail string) (id, clientSecret string, err error)
}

// Notifier envoie la confirmation de commande (best-effort, hors chemin
// critique).
type Notifier interface {
	OrderConfirmation(to, orderID string, total float64, lineCount int) error
}

// Journal trace les décréments de stock qui ont échoué après le batch — la
// commande est actée, le stock sera réconcilié.
type Journal interface {
	Record(ctx context.Context, e database.JournalEntry)
}

// ProductCache invalide l'entrée Redis d'un produit dont le stock vient de
// changer — sinon l'ajout au panier et la fiche produit serviraient l'ancien
// stock jusqu'à expiration du TTL.
type ProductCache interface {
	InvalidateProduct(ctx context.Context, id gocql.UUID)
}

type Service struct {
	Catalog  Catalog
	Cart     Cart
	Orders   Orders
	Cards    Cards
	Payments Payments
	Notifier Notifier
	Journal  Journal
	Cache    ProductCache
}

type Request struct {
	UserEmail     string `json:"userEmail"`
	PaymentMethod string `json:"paymentMethod"`
	OrderNotes    string `json:"orderNotes"`
	// SaveCard : si renseignée, la carte est enregistrée pour la prochaine fois.
	SaveCard *models.StoredCard `json:"saveCard,omitempty"`
}

type Receipt struct {
	OrderID          string  `json:"orderId"`
	TotalOrderAmount float64 `json:"totalOrderAmount"`
	LineCount        int     `json:"lineCount"`
	// ClientSecret : renvoyé uniquement pour un paiement par carte, consommé
	// par le SDK mobile pour confirmer l'intention Stripe.
	ClientSecret string `json:"clientSecret,omitempty"`
}

// NewOrderID fabrique l'identifiant de commande : secondes Unix + les 8
// premiers caractères d'un UUID. Lisible, trié grossièrement par date, et
// assez d'entropie pour deux checkouts dans la même seconde.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8])
}

// PlaceOrder déroule le checkout complet :
//  1. valider la requête et charger le panier
//  2. résoudre chaque produit en parallèle (ordre du panier préservé)
//  3. construire les lignes de commande (total répété sur chacune)
//  4. paiement par carte : créer l'intention Stripe avant d'écrire quoi que ce soit
//  5. batch atomique : insertion des lignes + vidage du panier
//  6. décrément du stock (plancher zéro) et notifications, hors chemin critique
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Receipt, error) {
	if req.UserEmail == "" {
		return nil, apperrors.Validationf("userEmail")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.Validationf("paymentMethod %q", req.PaymentMethod)
	}

	cartLines, err := s.Cart.ListByUser(ctx, req.UserEmail)
	if err != nil {
		return nil, err
	}
	if len(cartLines) == 0 {
		return nil, apperrors.Validationf("panier vide")
	}

	// Résolution parallèle des produits, résultats indexés pour préserver
	// l'ordre du panier dans la commande.
	products := make([]*models.Product, len(cartLines))
	g, gctx := errgroup.WithContext(ctx)
	for i, cl := range cartLines {
		i, cl := i, cl
		g.Go(func() error {
			p, err := s.Catalog.Get(gctx, cl.ProductID)
			if err != nil {
				return fmt.Errorf("produit %s: %w", cl.ProductID, err)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	orderID := NewOrderID(now)

	var total float64
	for i, cl := range cartLines {
		total += products[i].PriceValue() * float64(cl.Quantity)
	}
	total = math.Round(total*100) / 100

	lines := make([]models.OrderLine, len(cartLines))
	for i, cl := range cartLines {
		p := products[i]
		lines[i] = models.OrderLine{
			LineID:           gocql.TimeUUID(),
			OrderID:          orderID,
			UserEmail:        req.UserEmail,
			ProductID:        p.ID,
			ProductName:      p.Name,
			Quantity:         cl.Quantity,
			Price:            p.PriceValue(),
			Category:         p.Category,
			Status:           models.StatusPending,
			Timestamp:        now,
			PaymentMethod:    req.PaymentMethod,
			TotalOrderAmount: total,
			OrderNotes:       req.OrderNotes,
		}
	}

	receipt := &Receipt{OrderID: orderID, TotalOrderAmount: total, LineCount: len(lines)}

	// Le paiement précède toute écriture : une carte refusée ne laisse ni
	// commande ni panier à moitié vidé.
	if req.PaymentMethod == models.PaymentCard {
		amountCents := int64(math.Round(total * 100))
		_, secret, err := s.Payments.CreateIntent(ctx, amountCents, "eur", req.UserEmail)
		if err != nil {
			return nil, err
		}
		receipt.ClientSecret = secret
	}

	if err := s.Orders.PlaceBatch(ctx, lines, cartLines); err != nil {
		return nil, err
	}

	// Décrément du stock après coup : la commande est déjà actée, un stock
	// contesté est loggé et journalisé mais ne fait pas échouer le checkout.
	for i, cl := range cartLines {
		p := products[i]
		if _, err := s.Catalog.DecrementStock(ctx, p.ID, p.StoreEmail, cl.Quantity); err != nil {
			log.Printf("⚠️ Stock non décrémenté pour %s (commande %s): %v", p.ID, orderID, err)
			if s.Journal != nil {
				s.Journal.Record(ctx, database.JournalEntry{
					Side: string(apperrors.SideRemote), Entity: "product", Key: p.ID.String(),
					Operation: "stock_decrement", Reason: err.Error(),
				})
			}
			continue
		}
		if s.Cache != nil {
			s.Cache.InvalidateProduct(ctx, p.ID)
		}
	}

	if req.SaveCard != nil {
		card := *req.SaveCard
		card.UserEmail = req.UserEmail
		if card.CardID == (gocql.UUID{}) {
			card.CardID = gocql.TimeUUID()
		}
		card.CreatedAt = now
		if err := card.Validate(); err != nil {
			log.Printf("⚠️ Carte non enregistrée (commande %s): %v", orderID, err)
		} else if err := s.Cards.Save(ctx, card); err != nil {
			log.Printf("⚠️ Carte non enregistrée (commande %s): %v", orderID, err)
		}
	}

	if s.Notifier != nil {
		go func() {
			if err := s.Notifier.OrderConfirmation(req.UserEmail, orderID, total, len(lines)); err != nil {
				log.Printf("⚠️ Email de confirmation non envoyé (commande %s): %v", orderID, err)
			}
		}()
	}

	return receipt, nil
}
