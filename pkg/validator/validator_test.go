package validator

import "testing"

type payload struct {
	ClientID string  `validate:"notblank,max=255"`
	Title    *string `validate:"omitempty,max=10"`
}

func TestValidateNotBlank(t *testing.T) {
	v := New()
	long := "a very long meeting title"

	tests := []struct {
		name    string
		in      payload
		wantErr bool
	}{
		{"valid", payload{ClientID: "acme"}, false},
		{"empty client", payload{ClientID: ""}, true},
		{"whitespace client", payload{ClientID: "   "}, true},
		{"title too long", payload{ClientID: "acme", Title: &long}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
