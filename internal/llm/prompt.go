package llm

import (
	genai "google.golang.org/genai"
)

// systemInstruction fixes the persona and output discipline. The model
// must answer with JSON matching responseSchema, nothing else.
const systemInstruction = `Você é um especialista sênior em segurança institucional de unidades de saúde no Brasil. Sua função é atuar como um assistente para a equipe operacional. Você receberá um relato curto e informal de uma ocorrência e deve, obrigatoriamente, convertê-lo em um registro de protocolo técnico, estruturado e acionável. Siga estritamente os padrões definidos nos documentos de segurança hospitalar. Sua resposta deve ser sempre em formato JSON, aderindo ao esquema fornecido. Seja direto, claro e use terminologia profissional. O objetivo é fornecer à equipe em campo um guia rápido e preciso sobre como agir.`

func userPrompt(report string) string {
	return `Relato da ocorrência: "` + report + `"`
}

// responseSchema declares the seven required output fields, with the two
// closed enumerations spelled out so the model cannot invent categories
// or severity levels.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"technicalDescription": {
				Type:        genai.TypeString,
				Description: "Uma descrição técnica e objetiva da ocorrência, adequada para um registro formal de segurança. Use markdown `**texto**` para enfatizar os termos-chave.",
			},
			"category": {
				Type:        genai.TypeString,
				Enum:        []string{"Físico/Patrimonial", "Comportamental", "Operacional", "Violência/Ameaça Pessoal", "Emergência/Evasão"},
				Description: "A classificação do risco com base nas categorias fornecidas.",
			},
			"level": {
				Type:        genai.TypeString,
				Enum:        []string{"Baixo", "Médio", "Alto"},
				Description: "A avaliação do nível de risco (Baixo, Médio, Alto) com base na gravidade e urgência.",
			},
			"immediateActions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Uma lista numerada e clara de ações imediatas que a equipe operacional deve tomar para conter o incidente. Use markdown `**texto**` para enfatizar os verbos de ação ou termos críticos.",
			},
			"responsibleSector": {
				Type:        genai.TypeString,
				Description: "O setor ou equipe primariamente responsável por executar as ações imediatas (ex: 'Equipe de Segurança', 'Manutenção', 'Enfermagem Chefe').",
			},
			"communicationPlan": {
				Type:        genai.TypeString,
				Description: "Instruções sobre quem deve ser comunicado sobre o incidente e em que ordem (ex: 'Comunicar imediatamente à Coordenação Administrativa e à Direção').",
			},
			"preventiveMeasures": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Uma lista de medidas preventivas recomendadas para reduzir a probabilidade de recorrência do incidente. Use markdown `**texto**` para enfatizar os pontos mais importantes.",
			},
		},
		Required: []string{
			"technicalDescription",
			"category",
			"level",
			"immediateActions",
			"responsibleSector",
			"communicationPlan",
			"preventiveMeasures",
		},
	}
}
