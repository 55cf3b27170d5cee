package services

import (
	"context"
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripePayments implémente checkout.Payments via les PaymentIntents Stripe.
type StripePayments struct{}

func (StripePayments) CreateIntent(_ context.Context, amountCents int64, currency, receiptEmail string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(receiptEmail),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("❌ Erreur Stripe: %v", err)
		return "", "", err
	}

	log.Printf("💳 PaymentIntent créé: %s (%.2f€) pour %s", intent.ID, float64(amountCents)/100, receiptEmail)
	return intent.ID, intent.ClientSecret, nil
}
