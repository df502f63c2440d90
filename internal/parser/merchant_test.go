package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "presso with trailing date clause",
			text: "Hai effettuato una spesa di € 12,34 presso AMAZON MARKETPLACE il 10/02/2026 alle 14:21.",
			want: "AMAZON MARKETPLACE",
		},
		{
			name: "esercente label",
			text: "Pagamento autorizzato. Esercente: Esselunga Milano, importo € 45,10",
			want: "ESSELUNGA MILANO",
		},
		{
			name: "a favore di",
			text: "Bonifico eseguito a favore di Mario Rossi in data 03/01/2026",
			want: "MARIO ROSSI",
		},
		{
			name: "da source",
			text: "Rimborso di EUR 5,00 da PAYPAL.",
			want: "PAYPAL",
		},
		{
			name: "pagamento carta",
			text: "pagamento carta DECATHLON con carta *1234",
			want: "DECATHLON",
		},
		{
			name: "leading article stripped",
			text: "spesa presso la Farmacia Centrale alle 18:02",
			want: "FARMACIA CENTRALE",
		},
		{
			name: "only generic tokens falls through to sentinel",
			text: "Operazione: pagamento carta. Transazione carta eseguita.",
			want: GenericMerchant,
		},
		{
			name: "no pattern at all",
			text: "La tua operazione è stata eseguita.",
			want: GenericMerchant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMerchant(tt.text))
		})
	}
}

func TestIsGenericMerchant(t *testing.T) {
	assert.True(t, IsGenericMerchant(GenericMerchant))
	assert.True(t, IsGenericMerchant("PAGAMENTO CARTA"))
	assert.True(t, IsGenericMerchant("transazione carta isybank"))
	assert.True(t, IsGenericMerchant(""))

	assert.False(t, IsGenericMerchant("AMAZON MARKETPLACE"))
	assert.False(t, IsGenericMerchant("PAGAMENTO CARTA ESSELUNGA"))
}
