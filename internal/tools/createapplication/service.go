package createapplication

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// newApplicationID builds an id of the form APP-<region>-<8 hex chars>.
// The suffix is drawn fresh from crypto/rand on every call; ids are never
// reused and never persisted.
func newApplicationID(region string) (string, error) {
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("generate application id: %w", err)
	}
	return fmt.Sprintf("APP-%s-%s", region, strings.ToUpper(hex.EncodeToString(suffix[:]))), nil
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders the coverage amount with comma grouping, e.g.
// 2000000 -> "2,000,000".
func formatAmount(amount float64) string {
	return amountPrinter.Sprintf("%v", number.Decimal(amount))
}

// decodeInput converts the raw argument mapping into a typed Input. A value
// of the wrong type (for example a string coverage_amount) fails here and is
// treated as a malformed argument, which the dispatcher reports as an
// internal fault.
func decodeInput(args map[string]interface{}) (*Input, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return &input, nil
}
