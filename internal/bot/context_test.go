package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crypted-pay/crypted-pay/internal/catalogue"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
)

// Every context tag the built-in catalogue names must have a constructor in
// the registration table, or its screens would silently fall back to the
// not-found screen.
func TestCatalogueContextTagsAreRegistered(t *testing.T) {
	for _, trigger := range triggers.All() {
		spec, ok := catalogue.Response(trigger)
		if !ok {
			continue
		}
		_, registered := contextRegistry[spec.Context]
		assert.True(t, registered, "context tag %q of trigger %q has no constructor", spec.Context, trigger)
	}
}

func TestBackRowTargetsParent(t *testing.T) {
	row := backRow([]string{triggers.Start, triggers.Wallet, triggers.Check})
	assert.Equal(t, triggers.Wallet, row[0].Payload)

	row = backRow([]string{triggers.Start})
	assert.Equal(t, triggers.Start, row[0].Payload)
}
