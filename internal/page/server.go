package page

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaolave/ml-challenge-frontend/internal/answers"
	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/templates"
)

var tracer = otel.Tracer("page")

type catalogClient interface {
	ListProducts(ctx context.Context) ([]catalog.Summary, error)
	FetchBundle(ctx context.Context, productID int) (*catalog.Bundle, error)
}

type answerService interface {
	Ask(ctx context.Context, product answers.Product, question string) string
}

type feedbackSender interface {
	Send(ctx context.Context, subject, body string) error
}

type server struct {
	catalog  catalogClient
	answers  answerService
	mail     feedbackSender
	sessions *Store
	wg       sync.WaitGroup
}

// NewHandler returns the handler serving the product page endpoints.
func NewHandler(catalog catalogClient, answers answerService, mail feedbackSender) *server {
	return &server{
		catalog:  catalog,
		answers:  answers,
		mail:     mail,
		sessions: NewStore(),
	}
}

func (s *server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/{$}", s.handleHome)
	mux.HandleFunc("GET /products", s.handleProducts)
	mux.HandleFunc("GET /products/{id}", s.handleSelect)
	mux.HandleFunc("POST /variant", s.handleVariant)
	mux.HandleFunc("POST /currency", s.handleCurrency)
	mux.HandleFunc("POST /quantity", s.handleQuantity)
	mux.HandleFunc("POST /questions", s.handleAsk)
	mux.HandleFunc("POST /questions/{id}/delete", s.handleDeleteQuestion)
	mux.HandleFunc("POST /action", s.handleAction)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("POST /feedback", s.handleFeedback)
}

// Wait blocks until all background fetches and notifications finish. Called
// on shutdown so in-flight batches land before the process exits.
func (s *server) Wait() {
	s.wg.Wait()
}

// Sweep drops page sessions idle for half an hour.
func (s *server) Sweep(ctx context.Context) {
	s.sessions.Sweep(ctx, 30*time.Minute, 5*time.Minute)
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.sessions.FromRequest(w, r)
	if sess.BeginMount() {
		s.runMount(sess, 0)
	}

	snap := sess.View()
	switch snap.State {
	case StateReady:
		s.renderProduct(ctx, w, snap)
	case StateError:
		s.renderError(ctx, w, snap)
	default:
		s.renderLoading(ctx, w)
	}
}

func (s *server) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "product list failed", "error", err)
		http.Error(w, "unable to load products", http.StatusInternalServerError)
		return
	}

	data := struct {
		Products      []catalog.Summary
		ClarityScript template.HTML
	}{
		Products:      products,
		ClarityScript: templates.ClarityScript(),
	}
	if err := templates.Products.Execute(w, data); err != nil {
		slog.ErrorContext(ctx, "products template execute error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	sess := s.sessions.FromRequest(w, r)
	if sess.BeginDetail(id) {
		s.runBatch(sess, id)
	} else if sess.BeginMount() {
		// Fresh session deep-linking straight to a product: the list still
		// loads first, the landing product is just no longer random.
		s.runMount(sess, id)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleVariant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.sessions.FromRequest(w, r)
	if err := sess.SelectVariant(r.FormValue("axis"), r.FormValue("value")); err != nil {
		slog.ErrorContext(ctx, "variant selection failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.SetCurrency(r.FormValue("code"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleQuantity(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	if quantity, err := strconv.Atoi(r.FormValue("value")); err == nil {
		sess.SetQuantity(quantity)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	q, ok := sess.AddQuestion(r.FormValue("text"))
	if ok {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			// the posting request finishes immediately, the answer lands later
			ctx := context.Background()
			subject, ok := sess.AnswerSubject()
			if !ok {
				return
			}
			answer := s.answers.Ask(ctx, subject, q.Question)
			if !sess.SetAnswer(q.ID, answer) {
				slog.InfoContext(ctx, "question deleted before answer landed", "question", q.ID)
			}
		}()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.DeleteQuestion(r.PathValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.SetNotice("Funcionalidad no implementada")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	sess.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.FromRequest(w, r)
	message := strings.TrimSpace(r.FormValue("message"))
	if message != "" {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx := context.Background()
			if err := s.mail.Send(ctx, "Comentarios de la página de producto", message); err != nil {
				slog.ErrorContext(ctx, "feedback mail failed", "error", err)
			}
		}()
		sess.SetNotice("Gracias por tus comentarios")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// runMount fetches the product list and then the detail batch for the
// product the page lands on. A zero productID means pick one from the list.
func (s *server) runMount(sess *Session, productID int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// can't use the request context, the loading shell response has
		// already gone out by the time these land
		ctx := context.Background()
		products, err := s.catalog.ListProducts(ctx)
		pick, ok := sess.FinishList(products, err)
		if !ok {
			return
		}
		if productID != 0 {
			pick = productID
		}
		if sess.BeginDetail(pick) {
			s.fetchDetail(ctx, sess, pick)
		}
	}()
}

func (s *server) runBatch(sess *Session, productID int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.fetchDetail(context.Background(), sess, productID)
	}()
}

func (s *server) fetchDetail(ctx context.Context, sess *Session, productID int) {
	ctx, span := tracer.Start(ctx, "detail batch", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()
	bundle, err := s.catalog.FetchBundle(ctx, productID)
	sess.FinishDetail(productID, bundle, err)
}

func (s *server) renderProduct(ctx context.Context, w http.ResponseWriter, snap Snapshot) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if err := templates.Product.Execute(w, buildProductView(snap)); err != nil {
		slog.ErrorContext(ctx, "product template execute error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *server) renderError(ctx context.Context, w http.ResponseWriter, snap Snapshot) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	data := struct {
		Detail        string
		ClarityScript template.HTML
	}{
		Detail:        snap.Err,
		ClarityScript: templates.ClarityScript(),
	}
	if err := templates.Error.Execute(w, data); err != nil {
		slog.ErrorContext(ctx, "error template execute error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *server) renderLoading(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	data := struct {
		ClarityScript   template.HTML
		RefreshInterval string // seconds
	}{
		ClarityScript:   templates.ClarityScript(),
		RefreshInterval: "1",
	}
	if err := templates.Loading.Execute(w, data); err != nil {
		slog.ErrorContext(ctx, "loading template execute error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
