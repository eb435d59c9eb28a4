package notification

import (
	"context"
	"fmt"
)

// Mailer composes the customer-facing messages and hands them to the
// sink. Satisfies the Notifier ports of the payments and enrollment
// services.
type Mailer struct {
	sink Sink
}

// NewMailer constructs a Mailer over the given sink.
func NewMailer(sink Sink) *Mailer {
	return &Mailer{sink: sink}
}

func soles(amountCents int64) string {
	return fmt.Sprintf("S/ %.2f", float64(amountCents)/100)
}

// PaymentConfirmed notifies the cliente that a pago was confirmed.
// reference is the transaction code when present, otherwise the pago id.
func (m *Mailer) PaymentConfirmed(ctx context.Context, to, name string, amountCents int64, reference string) {
	m.sink.Send(ctx, to,
		"Pago confirmado — Gracias por tu compra",
		fmt.Sprintf("Hola %s, tu pago de %s ha sido confirmado. Código de transacción: %s.", name, soles(amountCents), reference),
		KindPaymentConfirmed,
	)
}

// PaymentRejected notifies the cliente that a pago was rejected.
func (m *Mailer) PaymentRejected(ctx context.Context, to, name string, amountCents int64) {
	m.sink.Send(ctx, to,
		"Pago rechazado",
		fmt.Sprintf("Hola %s, tu pago de %s fue rechazado. Por favor comunícate con soporte.", name, soles(amountCents)),
		KindPaymentRejected,
	)
}

// ManualPaymentRegistered notifies the cliente that an admin registered a
// payment on their behalf.
func (m *Mailer) ManualPaymentRegistered(ctx context.Context, to, name string, amountCents int64, method string) {
	m.sink.Send(ctx, to,
		"Pago manual registrado",
		fmt.Sprintf("Hola %s, se registró un pago manual de %s mediante %s.", name, soles(amountCents), method),
		KindManualPaymentRegistered,
	)
}

// EnrollmentSuccess welcomes the cliente to a curso.
func (m *Mailer) EnrollmentSuccess(ctx context.Context, to, name, courseName string) {
	m.sink.Send(ctx, to,
		fmt.Sprintf("Matrícula exitosa — %s", courseName),
		fmt.Sprintf("Hola %s, tu matrícula al curso %q fue registrada exitosamente. ¡Bienvenido!", name, courseName),
		KindEnrollmentSuccessful,
	)
}
