package usecase

import (
	"fmt"
	"strings"

	"github.com/cazehq/bizcon/internal/entity"
)

// terminalPhrase ends a conversation when it appears anywhere in an assistant
// reply, case-insensitively.
const terminalPhrase = "have a great day"

func containsTerminalPhrase(reply string) bool {
	return strings.Contains(strings.ToLower(reply), terminalPhrase)
}

func buildContextMessage(companyContext string, lead *entity.Lead) string {
	var b strings.Builder

	b.WriteString("You are a sales representative contacting potential business prospects via chat. ")
	b.WriteString("Your purpose is to identify if the prospect is experiencing specific problems we solve, ")
	b.WriteString("showcase the value of our solutions, and guide them toward validating and closing the interaction. ")
	b.WriteString("Never mention that you are an AI or assistant.\n\n")

	b.WriteString("<< USER INFO >>\n")
	fmt.Fprintf(&b, "Name: %s\nCompany: %s\nEmail: %s\n", lead.Name, lead.Company, lead.Email)
	if lead.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", lead.Description)
	}
	b.WriteString("<< END OF USER INFO >>\n\n")

	b.WriteString("<< COMPANY INFO >>\n")
	b.WriteString(companyContext)
	b.WriteString("\n<< END OF COMPANY INFO >>\n\n")

	b.WriteString("Follow these guidelines:\n")
	b.WriteString("- Personalize the greeting with the user's name; if no name is available, use \"Hi there!\".\n")
	b.WriteString("- Only discuss solutions from the company information.\n")
	b.WriteString("- If they ask about pricing or unrelated topics, politely redirect to a meeting or the solutions.\n")
	b.WriteString("- Confirm if they care about the problems we solve; if yes, set up a meeting and exchange contacts.\n")
	b.WriteString("- End with \"Have a great day!\" only in the final message.\n")

	return b.String()
}

func buildResumeContextMessage(chatSummary string) string {
	return fmt.Sprintf("Previous Chat Summary: %s\n\nContinue the sales conversation from where it left off.", chatSummary)
}

func resumePrompt(chatSummary string) string {
	return fmt.Sprintf("We were here last time:\n\n%s\n\nDo you want to continue from this conversation or start fresh? Type 'continue' to proceed or 'start fresh' to reset.", chatSummary)
}

func summaryPrompt(transcript []entity.Message) string {
	return fmt.Sprintf(
		"From this conversation between the sales agent and the consumer prepare a summary of the conversation in 50 words, provide everything including the contact details.\n\n%s",
		formatTranscript(transcript),
	)
}

func statusPrompt(transcript []entity.Message) string {
	return fmt.Sprintf(
		"Based on the following conversation, categorize the user's interest level as one of: 'Hot' (very interested), 'Warm' (partially interested), or 'Cold' (not interested). Give just one word answer.\n\n%s",
		formatTranscript(transcript),
	)
}

func productExtractionPrompt(corpus string) string {
	return fmt.Sprintf(
		"From the following company information, extract a comma-separated list of product names that the company offers. Only return the product names, separated by commas.\n\nCompany Info:\n%s",
		corpus,
	)
}

func invitationPrompt(companyContext string, lead *entity.Lead) string {
	return fmt.Sprintf(
		"You are composing a short outreach email to a potential customer.\n\n"+
			"<< COMPANY INFO >>\n%s\n<< END OF COMPANY INFO >>\n\n"+
			"<< USER INFO >>\nName: %s\nCompany: %s\n<< END OF USER INFO >>\n\n"+
			"Write only the email body: greet the user by name, describe the company's offering in up to 4 sentences, "+
			"and close with a prompt to click the chat link that follows your message. "+
			"Never say you are an AI, assistant, or bot. Do not add sign-offs or regards.",
		companyContext, lead.Name, lead.Company,
	)
}

func formatTranscript(transcript []entity.Message) string {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}
