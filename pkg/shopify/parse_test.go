package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraftOrderID(t *testing.T) {
	testCases := []struct {
		name       string
		metafields []Metafield
		want       string
		wantErr    string
	}{
		{
			name: "plain gid",
			metafields: []Metafield{
				{Namespace: "custom", Key: "draft_id", Value: "gid://shopify/DraftOrder/99887"},
			},
			want: "99887",
		},
		{
			name: "flow builder prefix",
			metafields: []Metafield{
				{Namespace: "custom", Key: "draft_id", Value: "Insert Variable gid://shopify/DraftOrder/99887"},
			},
			want: "99887",
		},
		{
			name: "other metafields ignored",
			metafields: []Metafield{
				{Namespace: "shipsec", Key: "simple_code", Value: "shipsecabc"},
				{Namespace: "custom", Key: "draft_id", Value: "gid://shopify/DraftOrder/5"},
			},
			want: "5",
		},
		{
			name:       "missing metafield",
			metafields: []Metafield{{Namespace: "custom", Key: "vjd_order_number", Value: "1"}},
			wantErr:    "not found",
		},
		{
			name: "wrong gid type",
			metafields: []Metafield{
				{Namespace: "custom", Key: "draft_id", Value: "gid://shopify/Order/99887"},
			},
			wantErr: "unexpected draft order id format",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDraftOrderID(tc.metafields)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
