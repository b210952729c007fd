package page

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
)

func demoBundle() *catalog.Bundle {
	return &catalog.Bundle{
		Product: catalog.Product{ID: 9, Title: "Teléfono", Images: []string{"a.jpg", "b.jpg"}},
		Offer: catalog.Offer{
			Axes: []catalog.Axis{{Name: "Color", Key: "color"}},
			Variants: []catalog.Variant{
				{
					ID:         901,
					Attributes: map[string]string{"color": "Negro"},
					ImageIndex: 0,
					Stock:      5,
					Pricing: map[string]catalog.Pricing{
						"COP": {Price: 100},
						"USD": {Price: 25},
					},
				},
				{
					ID:         902,
					Attributes: map[string]string{"color": "Rojo"},
					ImageIndex: 1,
					Stock:      2,
					Pricing: map[string]catalog.Pricing{
						"COP": {Price: 110},
					},
				},
			},
		},
		Questions: []catalog.Question{
			{ID: "q-cat", Question: "¿Incluye cargador?", Answer: lo.ToPtr("Sí, incluye cargador de 25W.")},
		},
	}
}

// readySession walks a fresh session through the whole mount sequence. The
// single-product list makes the landing pick deterministic.
func readySession(t *testing.T) *Session {
	t.Helper()
	s := &Session{}
	require.True(t, s.BeginMount())
	_, ok := s.FinishList([]catalog.Summary{{ID: 9, Title: "Teléfono"}}, nil)
	require.True(t, ok)
	require.True(t, s.BeginDetail(9))
	s.FinishDetail(9, demoBundle(), nil)
	require.Equal(t, StateReady, s.State())
	return s
}

func TestSessionMountSequence(t *testing.T) {
	orig := pickFn
	pickFn = func(n int) int { return n - 1 }
	t.Cleanup(func() { pickFn = orig })

	s := &Session{}
	require.True(t, s.BeginMount())
	require.False(t, s.BeginMount(), "a second request must not start another mount")

	pick, ok := s.FinishList([]catalog.Summary{{ID: 3}, {ID: 9}}, nil)
	require.True(t, ok)
	require.Equal(t, 9, pick)
	require.Equal(t, StateListLoaded, s.State())

	require.True(t, s.BeginDetail(pick))
	s.FinishDetail(pick, demoBundle(), nil)

	snap := s.View()
	require.Equal(t, StateReady, snap.State)
	require.Equal(t, 901, snap.VariantID, "first variant is preselected")
	require.Equal(t, 1, snap.Quantity)
	require.Equal(t, "COP", snap.Currency, "currency defaults to the first code of the first variant")
	require.Len(t, snap.Questions, 1)
}

func TestSessionListFailure(t *testing.T) {
	s := &Session{}
	require.True(t, s.BeginMount())
	_, ok := s.FinishList(nil, errors.New("backend down"))
	require.False(t, ok)

	snap := s.View()
	require.Equal(t, StateError, snap.State)
	require.Equal(t, "backend down", snap.Err)
	require.Nil(t, snap.Bundle)
}

func TestSessionEmptyListIsError(t *testing.T) {
	s := &Session{}
	require.True(t, s.BeginMount())
	_, ok := s.FinishList([]catalog.Summary{}, nil)
	require.False(t, ok)
	require.Equal(t, EmptyStoreMessage, s.View().Err)
}

func TestSessionDiscardsStaleDetail(t *testing.T) {
	s := readySession(t)
	require.True(t, s.BeginDetail(7))
	require.True(t, s.BeginDetail(9), "a newer selection supersedes one still loading")

	stale := demoBundle()
	stale.Product.ID = 7
	s.FinishDetail(7, stale, nil)
	require.Equal(t, StateDetailLoading, s.State(), "the stale batch must not land")

	s.FinishDetail(9, demoBundle(), nil)
	snap := s.View()
	require.Equal(t, StateReady, snap.State)
	require.Equal(t, 9, snap.Bundle.Product.ID)
}

func TestSessionDetailFailure(t *testing.T) {
	s := readySession(t)
	require.True(t, s.BeginDetail(12))
	s.FinishDetail(12, nil, errors.New("reviews request failed: status 500"))

	snap := s.View()
	require.Equal(t, StateError, snap.State)
	require.Contains(t, snap.Err, "status 500")
	require.Nil(t, snap.Bundle)
}

func TestSessionResetKeepsCurrency(t *testing.T) {
	s := readySession(t)
	s.SetCurrency("USD")
	s.Fail("backend went away")

	require.True(t, s.Reset())
	require.False(t, s.Reset(), "only an errored session resets")

	snap := s.View()
	require.Equal(t, StateIdle, snap.State)
	require.Equal(t, "USD", snap.Currency)
	require.Empty(t, snap.Err)
	require.Nil(t, snap.Bundle)
	require.Empty(t, snap.Questions)
}

func TestSessionSelectVariantResetsQuantity(t *testing.T) {
	s := readySession(t)
	s.SetQuantity(4)

	require.NoError(t, s.SelectVariant("color", "Rojo"))
	snap := s.View()
	require.Equal(t, 902, snap.VariantID)
	require.Equal(t, 1, snap.Quantity, "landing on another variant resets quantity")

	s.SetQuantity(2)
	require.NoError(t, s.SelectVariant("color", "Rojo"))
	require.Equal(t, 2, s.View().Quantity, "re-selecting the same variant keeps quantity")
}

func TestSessionSelectVariantUnknownValueKeepsCurrent(t *testing.T) {
	s := readySession(t)
	require.NoError(t, s.SelectVariant("color", "Turquesa"))
	require.Equal(t, 901, s.View().VariantID)
}

func TestSessionQuantityClampsToStock(t *testing.T) {
	s := readySession(t)
	s.SetQuantity(99)
	require.Equal(t, 5, s.View().Quantity)
	s.SetQuantity(0)
	require.Equal(t, 1, s.View().Quantity)
}

func TestSessionCurrencyPersistsAcrossProducts(t *testing.T) {
	s := readySession(t)
	s.SetCurrency("USD")

	require.True(t, s.BeginDetail(12))
	next := demoBundle()
	next.Product.ID = 12
	next.Offer.Variants = next.Offer.Variants[1:2]
	s.FinishDetail(12, next, nil)

	snap := s.View()
	require.Equal(t, StateReady, snap.State)
	require.Equal(t, "USD", snap.Currency, "an explicit currency choice survives even when the new product cannot price it")
	require.Equal(t, 902, snap.VariantID)
	require.Equal(t, 1, snap.Quantity)
}

func TestSessionQuestionThread(t *testing.T) {
	s := readySession(t)

	q1, ok := s.AddQuestion("¿Tiene NFC?")
	require.True(t, ok)
	q2, ok := s.AddQuestion("¿Cuánto pesa?")
	require.True(t, ok)
	_, ok = s.AddQuestion("   ")
	require.False(t, ok, "blank questions are dropped")

	snap := s.View()
	require.Len(t, snap.Questions, 3)
	require.Equal(t, q2.ID, snap.Questions[0].ID, "newest question first")
	require.Equal(t, q1.ID, snap.Questions[1].ID)
	require.Equal(t, "q-cat", snap.Questions[2].ID)
	require.Nil(t, snap.Questions[0].Answer)
	require.True(t, snap.Questions[0].UserGenerated)

	require.True(t, s.SetAnswer(q1.ID, "Sí, tiene NFC."))
	snap = s.View()
	require.NotNil(t, snap.Questions[1].Answer)
	require.Equal(t, "Sí, tiene NFC.", *snap.Questions[1].Answer)

	require.True(t, s.DeleteQuestion(q2.ID))
	require.False(t, s.DeleteQuestion(q2.ID))
	require.False(t, s.DeleteQuestion("q-cat"), "catalog questions are not deletable")
	require.False(t, s.SetAnswer(q2.ID, "llega tarde"))

	snap = s.View()
	require.Len(t, snap.Questions, 2)
	require.Equal(t, q1.ID, snap.Questions[0].ID)
}

func TestSessionNoticeShowsOnce(t *testing.T) {
	s := readySession(t)
	s.SetNotice("Funcionalidad no implementada")
	require.Equal(t, "Funcionalidad no implementada", s.View().Notice)
	require.Empty(t, s.View().Notice)
}

func TestSessionAnswerSubject(t *testing.T) {
	s := readySession(t)
	subject, ok := s.AnswerSubject()
	require.True(t, ok)
	require.Equal(t, 9, subject.ID)
	require.Equal(t, "Teléfono", subject.Title)
	require.Empty(t, subject.Specs)

	s.Fail("gone")
	_, ok = s.AnswerSubject()
	require.False(t, ok)
}
