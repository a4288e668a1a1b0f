package budget

import (
	"testing"

	"github.com/pocketledger/pocketledger/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{input: "expense", want: CategoryExpense},
		{input: "Subscription", want: CategorySubscription},
		{input: " income ", want: CategoryIncome},
		{input: "saving", want: CategorySaving},
		{input: "INVESTMENT", want: CategoryInvestment},
		{input: "travel", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				assert.ErrorIs(t, err, validation.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategories(t *testing.T) {
	defs := Categories()

	require.Len(t, defs, 5)
	labels := map[Category]string{}
	for _, def := range defs {
		labels[def.Category] = def.LabelField
	}
	assert.Equal(t, "Type", labels[CategoryExpense])
	assert.Equal(t, "Type", labels[CategorySubscription])
	assert.Equal(t, "Type", labels[CategoryIncome])
	assert.Equal(t, "Group", labels[CategorySaving])
	assert.Equal(t, "Purpose", labels[CategoryInvestment])

	// callers get a copy
	defs[0].DisplayName = "changed"
	assert.Equal(t, "Expense", Categories()[0].DisplayName)
}

func TestCategory_Def(t *testing.T) {
	def, err := CategorySaving.Def()
	require.NoError(t, err)
	assert.Equal(t, "Saving", def.DisplayName)

	_, err = Category("travel").Def()
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
