package discovery

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/sleep-proxy-client/src/internal/models"
)

func proxyLine(iface, properties, name, host, ip string, port int) string {
	return fmt.Sprintf(`=;%s;IPv4;%s;_sleep-proxy._udp;local;%s;%s;%d;""`,
		iface, Escape(properties+" "+name), host, ip, port)
}

func names(candidates []models.ProxyCandidate) []string {
	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.Name + "@" + c.IPAddress
	}
	return result
}

func TestRank_OrdersByPropertiesThenLinkLocal(t *testing.T) {
	candidates := []models.ProxyCandidate{
		{Name: "c.local", Properties: "70-35-60.1", IPAddress: "192.168.1.3"},
		{Name: "b.local", Properties: "10-34-10.70", IPAddress: "169.254.7.7"},
		{Name: "a.local", Properties: "10-34-10.70", IPAddress: "192.168.1.1"},
	}

	ranked := Rank(candidates, nil)

	assert.Equal(t, []string{"a.local@192.168.1.1", "b.local@169.254.7.7", "c.local@192.168.1.3"}, names(ranked))
}

func TestRank_PreferredAlwaysFirst(t *testing.T) {
	candidates := []models.ProxyCandidate{
		{Name: "best.local", Properties: "10-34-10.70", IPAddress: "192.168.1.1"},
		{Name: "worst.local", Properties: "99-99-99.99", IPAddress: "169.254.1.1"},
	}

	ranked := Rank(candidates, []string{"Worst"})

	require.Len(t, ranked, 2)
	assert.Equal(t, "worst.local", ranked[0].Name)
	assert.True(t, ranked[0].Preferred)
	assert.False(t, ranked[1].Preferred)
}

func TestRank_PreferredByInstanceName(t *testing.T) {
	candidates := []models.ProxyCandidate{
		{Name: "a.local", Instance: "10-34-10.70 Kitchen", Properties: "10-34-10.70", IPAddress: "192.168.1.1"},
		{Name: "b.local", Instance: "70-35-60.1 Living Room", Properties: "70-35-60.1", IPAddress: "192.168.1.2"},
	}

	ranked := Rank(candidates, []string{"living room"})

	assert.Equal(t, "b.local", ranked[0].Name)
}

func TestRank_StableForTies(t *testing.T) {
	candidates := []models.ProxyCandidate{
		{Name: "first.local", Properties: "10-34-10.70", IPAddress: "192.168.1.1"},
		{Name: "second.local", Properties: "10-34-10.70", IPAddress: "192.168.1.2"},
		{Name: "third.local", Properties: "10-34-10.70", IPAddress: "192.168.1.3"},
	}

	ranked := Rank(candidates, nil)

	assert.Equal(t, []string{"first.local@192.168.1.1", "second.local@192.168.1.2", "third.local@192.168.1.3"}, names(ranked))
}

func TestRank_CollapsesIdenticalAdvertisements(t *testing.T) {
	c := models.ProxyCandidate{Name: "a.local", Properties: "10-34-10.70", IPAddress: "192.168.1.1", Port: 5353}

	ranked := Rank([]models.ProxyCandidate{c, c}, nil)

	assert.Len(t, ranked, 1)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, []string{"x"}))
}

func TestRank_ShuffledInputSameOrder(t *testing.T) {
	var candidates []models.ProxyCandidate
	for i := 0; i < 20; i++ {
		ip := fmt.Sprintf("192.168.1.%d", i+1)
		if i%2 == 1 {
			ip = fmt.Sprintf("169.254.1.%d", i+1)
		}
		candidates = append(candidates, models.ProxyCandidate{
			Name:       fmt.Sprintf("p%02d.local", i),
			Properties: fmt.Sprintf("%02d-34-10.70", 9-i/2),
			IPAddress:  ip,
		})
	}
	preferred := []string{"p05", "p13.local"}

	want := names(Rank(candidates, preferred))

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 25; round++ {
		shuffled := append([]models.ProxyCandidate(nil), candidates...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Rank(shuffled, preferred)
		// Every candidate has a distinct sort key, so the order is fully determined.
		assert.Equal(t, want, names(got), "round %d", round)
	}

	ranked := Rank(candidates, preferred)
	for i := 1; i < len(ranked); i++ {
		assert.False(t, ranked[i].SortKey().Less(ranked[i-1].SortKey()), "not sorted at %d", i)
		if ranked[i].Preferred {
			assert.True(t, ranked[i-1].Preferred, "preferred candidate after non-preferred at %d", i)
		}
	}
}

func TestRankLines(t *testing.T) {
	lines := []string{
		proxyLine("eth0", "70-35-60.1", "Slow", "slow.local", "192.168.1.3", 5353),
		"=;eth0;IPv4;truncated",
		proxyLine("eth0", "10-34-10.70", "Fast", "fast.local", "192.168.1.2", 53535),
		proxyLine("wlan0", "01-01-01.01", "Other", "other.local", "10.0.0.2", 5353),
		"+;eth0;IPv4;pending;_sleep-proxy._udp;local",
	}

	ranked := RankLines(lines, "eth0:1", nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, "fast.local", ranked[0].Name)
	assert.Equal(t, uint16(53535), ranked[0].Port)
	assert.Equal(t, "10-34-10.70", ranked[0].Properties)
	assert.Equal(t, "eth0:1", ranked[0].Interface)
	assert.Equal(t, "slow.local", ranked[1].Name)
}

func TestRankLines_DropsRepeatedAdvertisements(t *testing.T) {
	line := proxyLine("eth0", "10-34-10.70", "Fast", "fast.local", "192.168.1.2", 5353)
	lines := []string{
		line,
		proxyLine("eth0", "70-35-60.1", "Slow", "slow.local", "192.168.1.3", 5353),
		line,
	}

	ranked := RankLines(lines, "eth0", nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, "fast.local", ranked[0].Name)
	assert.Equal(t, "slow.local", ranked[1].Name)
}
