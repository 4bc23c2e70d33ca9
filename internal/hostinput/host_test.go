package hostinput

import (
	"context"
	"net"
	"os"
	"testing"
)

type mockResolver struct {
	hosts map[string][]net.IP
}

func (m *mockResolver) LookupHost(ctx context.Context, hostname string) ([]net.IP, error) {
	if ips, ok := m.hosts[hostname]; ok {
		return ips, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: hostname, IsNotFound: true}
}

func TestParseAddresses_CIDRExpansion(t *testing.T) {
	ips, warnings := ParseAddresses(context.Background(), []string{"127.0.0.1", "192.168.0.0/30"}, nil)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := []string{"127.0.0.1", "192.168.0.0", "192.168.0.1", "192.168.0.2", "192.168.0.3"}
	if len(ips) != len(want) {
		t.Fatalf("got %d ips, want %d: %v", len(ips), len(want), ips)
	}
	for i, w := range want {
		if ips[i].String() != w {
			t.Errorf("ip[%d] = %s, want %s", i, ips[i], w)
		}
	}
}

func TestParseAddresses_Hostname(t *testing.T) {
	resolver := &mockResolver{hosts: map[string][]net.IP{
		"example.com": {net.ParseIP("93.184.216.34")},
	}}
	ips, _ := ParseAddresses(context.Background(), []string{"example.com"}, resolver)
	if len(ips) != 1 {
		t.Fatalf("got %d ips, want 1", len(ips))
	}
}

func TestParseAddresses_ValidAndInvalid(t *testing.T) {
	ips, _ := ParseAddresses(context.Background(), []string{"127.0.0.1", "im_wrong"}, &mockResolver{})
	if len(ips) != 1 || ips[0].String() != "127.0.0.1" {
		t.Errorf("got %v, want [127.0.0.1]", ips)
	}
}

func TestParseAddresses_AllInvalid(t *testing.T) {
	ips, _ := ParseAddresses(context.Background(), []string{"im_wrong", "300.10.1.1"}, &mockResolver{})
	if len(ips) != 0 {
		t.Errorf("got %v, want empty", ips)
	}
}

func TestParseAddresses_HostsFile(t *testing.T) {
	content := "127.0.0.1\nexample.com\nim_wrong\n300.10.1.1\n# a comment\n\n"
	f, err := os.CreateTemp(t.TempDir(), "hosts-*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()

	resolver := &mockResolver{hosts: map[string][]net.IP{
		"example.com": {net.ParseIP("1.2.3.4")},
	}}

	ips, warnings := ParseAddresses(context.Background(), []string{f.Name()}, resolver)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(ips) != 2 {
		t.Fatalf("got %d ips, want 2: %v", len(ips), ips)
	}
}

func TestParseAddresses_EmptyHostsFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "empty-*.txt")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()

	ips, _ := ParseAddresses(context.Background(), []string{f.Name()}, &mockResolver{})
	if len(ips) != 0 {
		t.Errorf("got %v, want empty", ips)
	}
}

func TestParseAddresses_UnreadableFileWarns(t *testing.T) {
	_, warnings := ParseAddresses(context.Background(), []string{"/no/such/path/at/all"}, &mockResolver{})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
}

func TestParseAddress_SingleHostCIDR(t *testing.T) {
	ips := ParseAddress(context.Background(), "10.0.0.5/32", nil)
	if len(ips) != 1 || ips[0].String() != "10.0.0.5" {
		t.Errorf("got %v, want [10.0.0.5]", ips)
	}
}
