package rankdocuments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-compliance-workers/internal/common/logger"
	"carbon-compliance-workers/internal/models"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

// ==========================
// Tokenization Tests
// ==========================

func TestQuestionTokens(t *testing.T) {
	tokens := questionTokens("What are SECR reporting rules for SECR reports?")
	// Short words drop out, repeats stay.
	assert.Equal(t, []string{"what", "secr", "reporting", "rules", "secr", "reports?"}, tokens)
}

func TestQuestionTokens_AllShortWords(t *testing.T) {
	assert.Empty(t, questionTokens("is it due now"))
}

// ==========================
// Scoring Tests
// ==========================

func TestScoreDocument_TokenMatchesAndTypeBonus(t *testing.T) {
	doc := models.Document{
		Type:    models.DocTypeRegulation,
		Content: "SECR reporting obligations apply to large companies",
	}
	tokens := []string{"secr", "reporting", "unrelated"}

	// 2 token matches + 5 regulation bonus
	assert.Equal(t, 7.0, scoreDocument(doc, tokens))
}

func TestScoreDocument_RepeatedTokenCountsTwice(t *testing.T) {
	doc := models.Document{
		Type:    models.DocTypeGuidance,
		Content: "emissions trading guidance",
	}
	tokens := []string{"emissions", "emissions"}

	// 2 matches + 3 guidance bonus
	assert.Equal(t, 5.0, scoreDocument(doc, tokens))
}

func TestScoreDocument_UnknownTypeGetsNoBonus(t *testing.T) {
	doc := models.Document{
		Type:    "faq",
		Content: "emissions",
	}
	assert.Equal(t, 1.0, scoreDocument(doc, []string{"emissions"}))
}

// ==========================
// Ranking Tests
// ==========================

func TestHandler_Execute_OrdersByScoreDescending(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question: "What are our emissions reporting obligations?",
		Documents: []models.Document{
			{ID: "guidance", Type: models.DocTypeGuidance, Content: "general guidance"},
			{ID: "regulation", Type: models.DocTypeRegulation, Content: "emissions reporting obligations? for companies"},
			{ID: "faq", Type: "faq", Content: "emissions questions"},
		},
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(output.RankedDocuments))
	for _, rd := range output.RankedDocuments {
		ids = append(ids, rd.ID)
	}
	assert.Equal(t, []string{"regulation", "guidance", "faq"}, ids)
	assert.Greater(t, output.RankedDocuments[0].Score, output.RankedDocuments[1].Score)
}

func TestHandler_Execute_StableOrderOnTies(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question: "carbon footprint",
		Documents: []models.Document{
			{ID: "a", Type: models.DocTypeGuidance, Content: "carbon guidance"},
			{ID: "b", Type: models.DocTypeGuidance, Content: "carbon advice"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "a", output.RankedDocuments[0].ID)
	assert.Equal(t, "b", output.RankedDocuments[1].ID)
}

func TestHandler_Execute_EmptyDocumentList(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Question:  "anything at all",
		Documents: []models.Document{},
	})
	require.NoError(t, err)
	assert.NotNil(t, output.RankedDocuments)
	assert.Empty(t, output.RankedDocuments)
}

func TestHandler_Execute_EmptyQuestion(t *testing.T) {
	handler := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrRankingFailed)
}
