package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// ImageURLGuard は利用者が指定した画像 URL を検証するガード。
// 保存前の静的検証と、内部ネットワークへ到達しない HTTP クライアントの
// 生成を担当する。
type ImageURLGuard struct {
	allowedSchemes []string
	probeTimeout   time.Duration
}

// blockedNetworks は画像プローブで到達を禁止するネットワーク帯。
var blockedNetworks []*net.IPNet

func init() {
	cidrs := []string{
		"127.0.0.0/8",    // ループバック
		"10.0.0.0/8",     // プライベート
		"172.16.0.0/12",  // プライベート
		"192.168.0.0/16", // プライベート
		"169.254.0.0/16", // リンクローカル(クラウドメタデータ含む)
		"0.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("不正な CIDR 定義: %s", cidr))
		}
		blockedNetworks = append(blockedNetworks, network)
	}
}

// NewImageURLGuard は既定設定のガードを生成する。
func NewImageURLGuard() *ImageURLGuard {
	return &ImageURLGuard{
		allowedSchemes: []string{"http", "https"},
		probeTimeout:   5 * time.Second,
	}
}

// ValidateImageURL は画像 URL の静的検証を行う。
// ネットワークアクセスは行わず、スキームとホストの形式のみ確認する。
// 空文字列は「画像なし」を意味するため許可する。
func (g *ImageURLGuard) ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("画像 URL の解析に失敗: %w", err)
	}

	if !g.isAllowedScheme(parsed.Scheme) {
		return fmt.Errorf("許可されていないスキーム: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("ホストが空の URL は許可されない")
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("ブロック対象のネットワークへの URL: %s", host)
		}
	} else if isBlockedHostname(host) {
		return fmt.Errorf("ブロック対象のホスト名: %s", host)
	}

	return nil
}

// NewProbeClient は画像の到達確認に使う安全な HTTP クライアントを返す。
// safeurl が net.Dialer の Control フックで DNS 解決後の IP アドレスを
// 検証するため、DNS 再バインディング経由の内部アクセスも防止される。
func (g *ImageURLGuard) NewProbeClient() *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(g.probeTimeout).
		SetAllowedSchemes(g.allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// ProbeLogo はロゴ URL へ安全なクライアントで到達確認を行う。
// 静的検証を通過した URL に対してのみ呼び出すこと。
func (g *ImageURLGuard) ProbeLogo(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("プローブリクエストの生成に失敗: %w", err)
	}

	resp, err := g.NewProbeClient().Do(req)
	if err != nil {
		return fmt.Errorf("ロゴ URL への到達確認に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ロゴ URL がステータス %d を返した", resp.StatusCode)
	}
	return nil
}

func (g *ImageURLGuard) isAllowedScheme(scheme string) bool {
	for _, allowed := range g.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func isBlockedHostname(host string) bool {
	return strings.EqualFold(host, "localhost")
}
