package domain

import "testing"

func TestHostPortString(t *testing.T) {
	hp := HostPort{Host: "192.168.1.1", Port: 8080}
	if hp.String() != "192.168.1.1:8080" {
		t.Errorf("expected %q, got %q", "192.168.1.1:8080", hp.String())
	}

	v6 := HostPort{Host: "::1", Port: 443}
	if v6.String() != "[::1]:443" {
		t.Errorf("expected %q, got %q", "[::1]:443", v6.String())
	}
}

func TestSeekResultSeverity(t *testing.T) {
	tests := []struct {
		name     string
		result   SeekResult
		expected string
	}{
		{"empty", SeekResult{}, "info"},
		{"hosts without vulns", SeekResult{Hosts: []DiscoveredHost{{IP: "10.0.0.1"}}}, "medium"},
		{"low vuln", SeekResult{Hosts: []DiscoveredHost{{IP: "10.0.0.1", Vulns: []ServiceVulnerability{{ID: "CVE-1", CVSS: 5.0}}}}}, "medium"},
		{"high vuln", SeekResult{Hosts: []DiscoveredHost{{IP: "10.0.0.1", Vulns: []ServiceVulnerability{{ID: "CVE-1", CVSS: 7.0}}}}}, "high"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Severity(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestSeekResultCloneIsDeep(t *testing.T) {
	orig := SeekResult{Hosts: []DiscoveredHost{{IP: "10.0.0.1", Services: []DiscoveredService{{Port: 22}}}}}
	cp := orig.Clone()
	cp.Hosts[0].Services[0].Port = 2222
	cp.Hosts[0].IP = "10.0.0.2"

	if orig.Hosts[0].Services[0].Port != 22 || orig.Hosts[0].IP != "10.0.0.1" {
		t.Error("clone shares memory with the original")
	}
}

func TestSeekResultServiceAt(t *testing.T) {
	res := SeekResult{Hosts: []DiscoveredHost{
		{IP: "10.0.0.1", Services: []DiscoveredService{{Port: 22, Service: "ssh"}}},
		{IP: "10.0.0.2", Services: []DiscoveredService{{Port: 21, Service: "ftp"}, {Port: 80, Service: "http"}}},
	}}

	svc, ok := res.ServiceAt("10.0.0.2", 80)
	if !ok || svc.Service != "http" {
		t.Errorf("expected http on 10.0.0.2:80, got %+v (found=%v)", svc, ok)
	}
	if _, ok := res.ServiceAt("10.0.0.1", 80); ok {
		t.Error("port 80 was not discovered on 10.0.0.1")
	}
	if _, ok := res.ServiceAt("10.0.0.9", 22); ok {
		t.Error("10.0.0.9 was not discovered")
	}
}

func TestEnterRequestValidate(t *testing.T) {
	ok := EnterRequest{TargetIP: "10.0.0.5", Port: 21}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (EnterRequest{TargetIP: "not-an-ip", Port: 21}).Validate(); err == nil {
		t.Error("expected error for bad ip")
	}
	if err := (EnterRequest{TargetIP: "10.0.0.5"}).Validate(); err == nil {
		t.Error("expected error for missing port")
	}
}

func TestProgressFuncClamps(t *testing.T) {
	var got []int
	f := ProgressFunc(func(p int, _ string) { got = append(got, p) })
	f.Report(-5, "")
	f.Report(50, "")
	f.Report(150, "")

	if len(got) != 3 || got[0] != 0 || got[1] != 50 || got[2] != 100 {
		t.Errorf("unexpected clamped values: %v", got)
	}

	var nilFunc ProgressFunc
	nilFunc.Report(10, "no panic")
}
