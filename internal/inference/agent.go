package inference

import (
	"context"
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-pro"

func NewAgent(ctx context.Context, apiKey, modelName, agentName string) (agent.Agent, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	parser, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Extract student profile fields from a resume",
		Instruction: prompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	return parser, nil
}
