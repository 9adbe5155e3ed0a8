package security

import "testing"

// TestImageURLGuard_ValidateURL は画像URLの静的検証を検証する。
func TestImageURLGuard_ValidateURL(t *testing.T) {
	g := NewImageURLGuard()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"公開httpsのURL", "https://images.example.com/drill.jpg", false},
		{"httpスキームは拒否", "http://images.example.com/drill.jpg", true},
		{"javascriptスキームは拒否", "javascript:alert(1)", true},
		{"dataスキームは拒否", "data:image/png;base64,AAAA", true},
		{"空URL", "", true},
		{"ホストなし", "https://", true},
		{"localhost", "https://localhost/x.png", true},
		{"ループバックIP", "https://127.0.0.1/x.png", true},
		{"プライベートIP 10系", "https://10.0.0.5/x.png", true},
		{"プライベートIP 192.168系", "https://192.168.1.10/x.png", true},
		{"メタデータIP", "https://169.254.169.254/latest/meta-data", true},
		{"IPv6ループバック", "https://[::1]/x.png", true},
		{"公開IPアドレス", "https://93.184.216.34/x.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateURL(tt.url)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateURL(%q) = nil, want error", tt.url)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateURL(%q) = %v, want nil", tt.url, err)
			}
		})
	}
}

// TestImageURLGuard_NewSafeClient はSSRF防止クライアントの生成を検証する。
func TestImageURLGuard_NewSafeClient(t *testing.T) {
	g := NewImageURLGuard()

	client := g.NewSafeClient(0)
	if client == nil {
		t.Fatal("expected non-nil http.Client")
	}
}
