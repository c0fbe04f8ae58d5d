package analysis

import (
	"bytes"
	"strings"
	"text/template"
)

const systemPrompt = "Você é um especialista em arquitetura e interiores de alto padrão. Responda sempre em JSON."

var userTemplate = template.Must(template.New("analysis").Parse(`Você é um arquiteto sênior da Rosa Menta ARQ, especialista em Design Afetivo e Arquitetura Humanizada.
Analise estas escolhas do cliente: [{{.Answers}}].

DIRETRIZES DE TOM E ESTILO:
- Tom: Casual, acolhedor, leve, fluido e informativo com afeto.
- Voz: Fale diretamente com o cliente ("Você vai sentir...", "Seu refúgio será...").
- Foco: Identidade própria e personalização (evite rotular com estilos genéricos).
- Formatação: Texto corrido, limpo, SEM emojis.
- Destaques: Sempre que citar uma escolha do cliente ou termo chave, coloque entre colchetes ex: [Madeira Clara].

ESTRUTURA DA RESPOSTA (JSON):
{
  "profileName": "Um nome curto, criativo e elegante para o estilo (ex: Refúgio Afetivo, Minimalismo Solar)",
  "description": "Escreva exatamente 3 parágrafos curtos e fluidos.\n\n1º Parágrafo: Conecte as escolhas principais criando uma atmosfera.\n2º Parágrafo: Destaque os materiais e a sensação do espaço, usando os termos entre colchetes.\n3º Parágrafo: Finalize com uma reflexão breve sobre como esse estilo transforma a casa em um lar único."
}`))

// BuildPrompt renders the user message for the given per-step labels.
func BuildPrompt(labels []string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Answers string }{Answers: strings.Join(labels, ", ")}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
