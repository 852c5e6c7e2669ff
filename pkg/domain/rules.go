package domain

import "strings"

// ---------------------------------------------------------------------------
// Spam rule set
// ---------------------------------------------------------------------------

// SpamRuleSet is the static configuration the classifier runs against.
// Built once at startup and shared read-only across all events.
type SpamRuleSet struct {
	// Domains are matched case-insensitively as substrings; stored
	// lower-cased. A single domain hit is spam on its own.
	Domains []string `yaml:"domains" json:"domains"`

	// Keywords are matched case-insensitively as substrings; stored
	// upper-cased. At least Threshold distinct keywords must match.
	Keywords []string `yaml:"keywords" json:"keywords"`

	// Threshold is the minimum number of distinct keyword matches that
	// makes a message spam. Always >= 1.
	Threshold int `yaml:"threshold" json:"threshold"`
}

// DefaultThreshold requires two distinct keyword hits, so one incidental
// match ("giveaway" in a legitimate sentence) never triggers deletion.
const DefaultThreshold = 2

// DefaultRules returns the built-in crypto-spam rule set.
func DefaultRules() SpamRuleSet {
	return SpamRuleSet{
		Keywords: []string{
			"FREE ETH", "FREEETHER.NET", "CLAIM ETH", "GET FREE CRYPTO",
			"BITCOIN GIVEAWAY", "ETHEREUM AIRDROP", "FREE CRYPTO",
			"CONNECT YOUR WALLET", "WALLET VERIFY", "FREE MONEY",
			"CLICK HERE", "INSTANT REWARDS", "NO REGISTRATION",
			"ABSOLUTELY FREE", "DROP ETH", "GIVEAWAY", "FREE NFT",
			"AIRDROP", "SEND ETHER", "CRYPTO BONUS",
			"MAKE MONEY FAST", "PUMP MY WALLET", "VERIFICATION REQUIRED",
			"WALLET SYNC", "DEPOSIT TO CLAIM",
		},
		Domains: []string{
			"freeether.net", "free-eth.com", "claim-eth.org", "airdrop-crypto.ru",
			"getfreecrypto.io", "crypto-giveaway.net", "bitcoin-airdrop.org",
			"wallet-verify.com", "eth-drop.com", "free-crypto.today",
			"claimcrypto.pro", "airdrop-funds.com", "verifywallet.net",
			"bit-airdrop.com", "nft-giveaway.net",
		},
		Threshold: DefaultThreshold,
	}
}

// Normalized returns a copy with domains lower-cased, keywords upper-cased,
// duplicates and empty entries dropped, and the threshold clamped to >= 1.
// The classifier assumes its rule set went through this.
func (r SpamRuleSet) Normalized() SpamRuleSet {
	out := SpamRuleSet{Threshold: r.Threshold}
	if out.Threshold < 1 {
		out.Threshold = DefaultThreshold
	}

	seen := make(map[string]bool, len(r.Domains))
	for _, d := range r.Domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out.Domains = append(out.Domains, d)
	}

	seen = make(map[string]bool, len(r.Keywords))
	for _, k := range r.Keywords {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out.Keywords = append(out.Keywords, k)
	}

	return out
}
