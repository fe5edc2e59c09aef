// Package persona 提供对话使用的人设 system prompt 与公开个人资料
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed system_prompt.txt
var defaultSystemPrompt string

// Persona 人设
type Persona struct {
	systemPrompt string
	profile      Profile
}

// Profile 公开个人资料
type Profile struct {
	Name         string   `json:"name"`
	CurrentRole  string   `json:"current_role"`
	Education    string   `json:"education"`
	Skills       []string `json:"skills"`
	Projects     []string `json:"projects"`
	Interests    []string `json:"interests"`
	Achievements []string `json:"achievements"`
}

// Default 内置人设
func Default() *Persona {
	return &Persona{
		systemPrompt: strings.TrimSpace(defaultSystemPrompt),
		profile:      defaultProfile(),
	}
}

// Load 加载人设，promptFile 为空时使用内置 system prompt
func Load(promptFile string) (*Persona, error) {
	p := Default()
	if promptFile == "" {
		return p, nil
	}

	data, err := os.ReadFile(promptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return nil, fmt.Errorf("persona prompt file is empty: %s", promptFile)
	}
	p.systemPrompt = prompt
	return p, nil
}

// SystemPrompt 返回 system prompt
func (p *Persona) SystemPrompt() string {
	return p.systemPrompt
}

// Profile 返回公开个人资料
func (p *Persona) Profile() Profile {
	return p.profile
}

func defaultProfile() Profile {
	return Profile{
		Name:        "Yashaswa Varshney you can call me Yash",
		CurrentRole: "Software Development Engineer at HyperBots",
		Education:   "B.Tech in Computer Science from KIIT University 2024 Graduate",
		Skills:      []string{"AI Agents", "Financial Systems", "Automation", "Python", "LangGraph", "RAG"},
		Projects: []string{
			"Multi-Database Query Orchestrator",
			"Sector Rotation Graph",
			"FilthyFilter",
		},
		Interests: []string{"Blogging (Finance, AI)", "Himalayan trekking", "Swimming", "Hiking"},
		Achievements: []string{
			"Contributed to Flowise Python connectors",
			"Blog on Nadaraya-Watson Indicator with 12.5K+ views",
			"Speaker at UN Workshop on Power BI",
			"ArtStation Utopia Concept Art Winner",
		},
	}
}
