package ansible

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleInventory = `
all:
  children:
    webservers:
      hosts:
        web1:
          ansible_host: 10.0.0.1
        web2:
          ansible_host: 10.0.0.2
    dbservers:
      hosts:
        db1:
          ansible_host: 10.0.1.1
    monitoring:
      hosts: {}
`

func writeInventory(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	return path
}

func TestAnalyzeFlattensGroups(t *testing.T) {
	path := writeInventory(t, sampleInventory)

	got, err := Analyze(path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.InventoryFile != path {
		t.Fatalf("expected inventory file %q, got %q", path, got.InventoryFile)
	}

	byName := map[string]int{}
	for _, g := range got.Groups {
		byName[g.Group] = len(g.Hosts)
	}
	if byName["webservers"] != 2 || byName["dbservers"] != 1 {
		t.Fatalf("unexpected host counts: %+v", byName)
	}
	if n, ok := byName["monitoring"]; !ok || n != 0 {
		t.Fatalf("empty groups should survive, got %+v", byName)
	}
	if _, ok := byName["all"]; ok {
		t.Fatalf("empty all wrapper should be unwrapped: %+v", byName)
	}
}

func TestAnalyzeResolvesAnsibleHost(t *testing.T) {
	path := writeInventory(t, sampleInventory)

	got, err := Analyze(path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, g := range got.Groups {
		if g.Group != "webservers" {
			continue
		}
		if g.Hosts[0].Name != "web1" || g.Hosts[0].IP == nil || *g.Hosts[0].IP != "10.0.0.1" {
			t.Fatalf("unexpected first host: %+v", g.Hosts[0])
		}
		return
	}
	t.Fatalf("webservers group missing")
}

func TestAnalyzeHostWithoutAddress(t *testing.T) {
	path := writeInventory(t, `
all:
  hosts:
    bare:
`)
	got, err := Analyze(path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(got.Groups) != 1 || got.Groups[0].Group != "all" {
		t.Fatalf("expected single all group, got %+v", got.Groups)
	}
	h := got.Groups[0].Hosts[0]
	if h.Name != "bare" || h.IP != nil {
		t.Fatalf("host without ansible_host should have nil IP, got %+v", h)
	}
}

func TestAnalyzeRejectsMissingFile(t *testing.T) {
	if _, err := Analyze(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestAnalyzeRejectsMalformedYAML(t *testing.T) {
	path := writeInventory(t, "::: not yaml :::")
	if _, err := Analyze(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
