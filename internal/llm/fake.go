package llm

import (
	"context"
	"strings"

	"riskprotocol/internal/protocol"
)

// FakeClient returns a deterministic draft without any network call, for
// offline runs (LLM_PROVIDER=fake) and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateProtocol(ctx context.Context, report string) (*protocol.Draft, error) {
	level := protocol.LevelMedium
	category := protocol.CategoryOperational
	lower := strings.ToLower(report)
	switch {
	case strings.Contains(lower, "fumaça") || strings.Contains(lower, "incêndio"):
		category = protocol.CategoryEmergency
		level = protocol.LevelHigh
	case strings.Contains(lower, "agressiv") || strings.Contains(lower, "ameaça"):
		category = protocol.CategoryViolence
		level = protocol.LevelHigh
	case strings.Contains(lower, "furto") || strings.Contains(lower, "roubo"):
		category = protocol.CategoryPhysical
	}
	return &protocol.Draft{
		TechnicalDescription: "Ocorrência registrada para avaliação: **" + strings.TrimSpace(report) + "**.",
		Category:             category,
		Level:                level,
		ImmediateActions: []string{
			"**Isolar** a área afetada.",
			"Acionar a equipe de segurança local.",
		},
		ResponsibleSector: "Equipe de Segurança",
		CommunicationPlan: "Comunicar imediatamente à Coordenação Administrativa e à Direção.",
		PreventiveMeasures: []string{
			"Revisar os procedimentos de ronda.",
			"Registrar a ocorrência no livro de plantão.",
		},
	}, nil
}
