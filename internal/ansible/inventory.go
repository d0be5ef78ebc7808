// Package ansible parses YAML inventories on the operator's machine into the
// same shape the backend's /ansible/analyze endpoint returns, so the CLI can
// analyze files the server cannot reach.
package ansible

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"opsdash-cli/internal/model"
)

// groupNode mirrors the YAML inventory format: a group carries hosts,
// child groups and (ignored here) group vars.
type groupNode struct {
	Hosts    map[string]map[string]any `yaml:"hosts"`
	Children map[string]groupNode      `yaml:"children"`
	Vars     map[string]any            `yaml:"vars"`
}

// Analyze reads a YAML inventory file and flattens it to group/host rows.
// Groups without hosts are kept (they still appear in the dashboard), the
// implicit "all" wrapper is unwrapped, and output ordering is stable.
func Analyze(path string) (*model.InventoryAnalysis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var root map[string]groupNode
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	byGroup := map[string][]model.InventoryHost{}
	for name, node := range root {
		collect(name, node, byGroup)
	}
	// Ungrouped hosts under "all" stay under "all"; named children become
	// their own groups, so drop an "all" entry that only duplicates them.
	if hosts, ok := byGroup["all"]; ok && len(hosts) == 0 && len(byGroup) > 1 {
		delete(byGroup, "all")
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &model.InventoryAnalysis{InventoryFile: path}
	for _, name := range names {
		hosts := byGroup[name]
		sort.Slice(hosts, func(i, j int) bool { return hosts[i].Name < hosts[j].Name })
		out.Groups = append(out.Groups, model.InventoryGroup{Group: name, Hosts: hosts})
	}
	return out, nil
}

func collect(name string, node groupNode, byGroup map[string][]model.InventoryHost) {
	hosts := byGroup[name]
	if hosts == nil {
		hosts = []model.InventoryHost{}
	}
	for hostName, vars := range node.Hosts {
		h := model.InventoryHost{Name: hostName}
		if ip, ok := vars["ansible_host"].(string); ok && ip != "" {
			h.IP = &ip
		}
		hosts = append(hosts, h)
	}
	byGroup[name] = hosts

	for childName, child := range node.Children {
		collect(childName, child, byGroup)
	}
}
