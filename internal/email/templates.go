package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// BuildOrderConfirmationBody builds the HTML body for the order confirmation
// email.
func BuildOrderConfirmationBody(orderID string, total decimal.Decimal) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 22px;">Thank you for your order</h1>
	<p>We have received your order and will start preparing it shortly.</p>
	<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
		<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
		<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
	</div>
	<p style="font-size: 18px;">Total: <strong>%s</strong></p>
	<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
	<p style="font-size: 12px; color: #999;">This is an automated message. Please contact support with any questions.</p>
</body>
</html>`, html.EscapeString(orderID), total.StringFixed(2))
}

// BuildTrackingUpdateBody builds the HTML body for a tracking update email.
func BuildTrackingUpdateBody(orderID, status, note string) string {
	noteHTML := ""
	if note != "" {
		noteHTML = fmt.Sprintf(`<p style="background: #f8f9fa; padding: 15px; border-radius: 5px;">%s</p>`, html.EscapeString(note))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 22px;">Your order is %s</h1>
	<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
		<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
		<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
	</div>
	%s
	<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
	<p style="font-size: 12px; color: #999;">This is an automated message. Please contact support with any questions.</p>
</body>
</html>`, statusLabel(status), html.EscapeString(orderID), noteHTML)
}

// statusLabel renders a tracking status for humans.
func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
