package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"
)

// Mailer envoie les confirmations de commande. Implémente checkout.Notifier.
type Mailer struct{}

func (Mailer) OrderConfirmation(to, orderID string, total float64, lineCount int) error {
	return SendEmail(to,
		fmt.Sprintf("Confirmation de votre commande %s", orderID),
		orderConfirmationHTML(orderID, total, lineCount))
}

func SendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(fromAddress()); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

func fromAddress() string {
	if from := os.Getenv("SMTP_FROM"); from != "" {
		return from
	}
	return "noreply@greenbag.app"
}

func orderConfirmationHTML(orderID string, total float64, lineCount int) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4fbf4; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #2e7d32;">Merci pour votre commande !</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
		<p>%d article(s) — total : <strong>%.2f€</strong></p>
		<p>Vous pouvez suivre son avancement depuis l'application.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe greenBag</strong>
		</p>
	</div>
</body>
</html>`, orderID, lineCount, total)
}
