package backend

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/samber/lo"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
)

// Mock serves a small fixed catalog so the page runs without a backend.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ListProducts(ctx context.Context) ([]catalog.Summary, error) {
	summaries := make([]catalog.Summary, 0, len(mockBundles))
	for _, b := range mockBundles {
		thumbnail := ""
		if len(b.Product.Images) > 0 {
			thumbnail = b.Product.Images[0]
		}
		summaries = append(summaries, catalog.Summary{
			ID:        b.Product.ID,
			Title:     b.Product.Title,
			Thumbnail: thumbnail,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (m *Mock) FetchBundle(ctx context.Context, id int) (*catalog.Bundle, error) {
	b, ok := mockBundles[id]
	if !ok {
		return nil, &StatusError{
			Operation:  "product",
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("product %d not found", id),
		}
	}
	bundle := b
	return &bundle, nil
}

func (m *Mock) Ready(ctx context.Context) error {
	return nil
}

var mockBundles = map[int]catalog.Bundle{
	1: {
		Product: catalog.Product{
			ID:    1,
			Title: "Samsung Galaxy A55 5G Dual SIM 256 GB",
			Images: []string{
				"/static/img/galaxy-a55-azul-1.webp",
				"/static/img/galaxy-a55-azul-2.webp",
				"/static/img/galaxy-a55-lila-1.webp",
			},
			Breadcrumbs: []catalog.Breadcrumb{
				{Label: "Celulares y Teléfonos", Href: "/celulares"},
				{Label: "Celulares y Smartphones", Href: "/celulares/smartphones"},
				{Label: "Samsung", Href: "/celulares/smartphones/samsung"},
			},
			Benefits: []string{
				"Devolución gratis. Tenés 30 días desde que lo recibís.",
				"Compra Protegida, recibí el producto que esperabas o te devolvemos tu dinero.",
				"1 año de garantía de fábrica.",
			},
			Shipping: &catalog.Shipping{
				Free:    true,
				Arrives: "Llega gratis mañana",
				Detail:  "Comprando dentro de las próximas 4 horas",
			},
			Pickup: &catalog.Pickup{
				Available: true,
				Arrives:   "Retirá gratis a partir de mañana en correos y otros puntos",
				Detail:    "Comprando dentro de las próximas 4 horas",
			},
			Description: "Con tu Galaxy A55 5G vas a poder capturar tus " +
				"momentos favoritos con su cámara triple de 50 Mpx y verlos en " +
				"una pantalla Super AMOLED de 6.6 pulgadas. Su batería de " +
				"5000 mAh te acompaña todo el día.",
			Specs: &catalog.Specs{
				Highlighted: []string{
					"Pantalla Super AMOLED 6.6\"",
					"Memoria interna de 256 GB",
					"Cámara triple de 50 Mpx",
					"Batería de 5000 mAh",
					"Con NFC para pagos sin contacto",
				},
				FeatureGroups: []catalog.FeatureGroup{
					{
						Title: "Características generales",
						Features: []catalog.Feature{
							{Name: "Marca", Value: "Samsung"},
							{Name: "Línea", Value: "Galaxy A"},
							{Name: "Modelo", Value: "A55 5G"},
						},
					},
					{
						Title: "Pantalla",
						Features: []catalog.Feature{
							{Name: "Tecnología", Value: "Super AMOLED"},
							{Name: "Tamaño", Value: "6.6\""},
							{Name: "Resolución", Value: "1080 px x 2340 px"},
						},
					},
				},
			},
		},
		Offer: catalog.Offer{
			ProductInfo: catalog.ProductInfo{
				Condition:   "Nuevo",
				SoldCount:   500,
				Rating:      4.8,
				ReviewCount: 769,
			},
			Axes: []catalog.Axis{
				{Name: "Color", Key: "color"},
				{Name: "Memoria interna", Key: "storage"},
			},
			Variants: []catalog.Variant{
				{
					ID:         101,
					Attributes: map[string]string{"color": "Azul oscuro", "storage": "256 GB"},
					ImageIndex: 0,
					Stock:      12,
					Pricing: map[string]catalog.Pricing{
						"COP": {
							Price:         1849900,
							OriginalPrice: lo.ToPtr(2312375.0),
							Installments:  &catalog.Installments{Months: 12, Amount: 154158, InterestFree: true},
						},
						"USD": {
							Price:         459.99,
							OriginalPrice: lo.ToPtr(574.99),
							Installments:  &catalog.Installments{Months: 12, Amount: 38.33, InterestFree: true},
						},
					},
				},
				{
					ID:          102,
					Attributes:  map[string]string{"color": "Azul oscuro", "storage": "128 GB"},
					TitleSuffix: "128 GB",
					ImageIndex:  1,
					Stock:       3,
					Pricing: map[string]catalog.Pricing{
						"COP": {
							Price:        1649900,
							Installments: &catalog.Installments{Months: 12, Amount: 137492, InterestFree: true},
						},
					},
				},
				{
					ID:         103,
					Attributes: map[string]string{"color": "Lila", "storage": "256 GB"},
					ImageIndex: 2,
					Stock:      7,
					Pricing: map[string]catalog.Pricing{
						"COP": {
							Price:         1899900,
							OriginalPrice: lo.ToPtr(2374875.0),
							Installments:  &catalog.Installments{Months: 12, Amount: 158325, InterestFree: true},
						},
						"USD": {
							Price: 472.99,
						},
					},
				},
			},
			Highlights: []string{"MÁS VENDIDO", "EN CELULARES Y SMARTPHONES"},
		},
		Questions: []catalog.Question{
			{ID: "1", Question: "¿Tiene NFC?", Answer: lo.ToPtr("Sí, tiene NFC para pagos sin contacto.")},
			{ID: "2", Question: "¿Viene con cargador incluido?", Answer: lo.ToPtr("No, el cargador se vende por separado.")},
			{ID: "3", Question: "¿Es liberado de fábrica?", Answer: lo.ToPtr("Sí, funciona con cualquier operador.")},
		},
		Reviews: catalog.ReviewData{
			Rating:      4.8,
			ReviewCount: 769,
			Reviews: []catalog.Review{
				{
					ID:            1,
					Rating:        5,
					Date:          "2025-11-02",
					OfficialStore: true,
					Content: "Excelente celular, la cámara es muy buena y la " +
						"batería dura todo el día. Llegó al día siguiente.",
					Likes:  24,
					Photos: []string{"/static/img/review-a55-1.webp"},
				},
				{
					ID:            2,
					Rating:        4,
					Date:          "2025-10-18",
					OfficialStore: false,
					Content:       "Muy buen equipo por el precio, aunque viene sin cargador.",
					Likes:         9,
				},
			},
		},
		PaymentMethods: catalog.PaymentMethods{
			PromoText: "¡Paga en hasta 12 cuotas sin interés!",
			Credit: []catalog.PaymentMethod{
				{Name: "Visa", Logo: "/static/img/pay-visa.svg"},
				{Name: "Mastercard", Logo: "/static/img/pay-mastercard.svg"},
				{Name: "American Express", Logo: "/static/img/pay-amex.svg"},
			},
			Debit: []catalog.PaymentMethod{
				{Name: "Visa Débito", Logo: "/static/img/pay-visa.svg"},
				{Name: "Mastercard Débito", Logo: "/static/img/pay-mastercard.svg"},
			},
			Cash: []catalog.PaymentMethod{
				{Name: "Efecty", Logo: "/static/img/pay-efecty.svg"},
			},
		},
		Seller: catalog.Seller{
			Name:      "Samsung",
			Official:  true,
			Followers: 363000,
			Products:  464,
			Sales:     1500000,
			Rating:    4.9,
			Logo:      "/static/img/seller-samsung.webp",
		},
	},
	2: {
		Product: catalog.Product{
			ID:    2,
			Title: "Xiaomi Redmi Note 13 Dual SIM 128 GB",
			Images: []string{
				"/static/img/redmi-note-13-1.webp",
				"/static/img/redmi-note-13-2.webp",
			},
			Breadcrumbs: []catalog.Breadcrumb{
				{Label: "Celulares y Teléfonos", Href: "/celulares"},
				{Label: "Celulares y Smartphones", Href: "/celulares/smartphones"},
			},
			Benefits: []string{
				"Devolución gratis. Tenés 30 días desde que lo recibís.",
				"Compra Protegida, recibí el producto que esperabas o te devolvemos tu dinero.",
			},
			Shipping: &catalog.Shipping{
				Free:    true,
				Arrives: "Llega gratis el jueves",
			},
			Description: "El Redmi Note 13 combina una pantalla AMOLED de " +
				"6.67 pulgadas con una cámara de 108 Mpx y carga rápida de 33 W.",
			Specs: &catalog.Specs{
				Highlighted: []string{
					"Pantalla AMOLED 6.67\"",
					"Cámara principal de 108 Mpx",
					"Carga rápida de 33 W",
				},
			},
		},
		Offer: catalog.Offer{
			ProductInfo: catalog.ProductInfo{
				Condition:   "Nuevo",
				SoldCount:   200,
				Rating:      4.6,
				ReviewCount: 214,
			},
			Axes: []catalog.Axis{
				{Name: "Color", Key: "color"},
			},
			Variants: []catalog.Variant{
				{
					ID:         201,
					Attributes: map[string]string{"color": "Negro"},
					ImageIndex: 0,
					Stock:      25,
					Pricing: map[string]catalog.Pricing{
						"COP": {
							Price:        799900,
							Installments: &catalog.Installments{Months: 6, Amount: 133317, InterestFree: true},
						},
					},
				},
				{
					ID:         202,
					Attributes: map[string]string{"color": "Verde menta"},
					ImageIndex: 1,
					Stock:      0,
					Pricing: map[string]catalog.Pricing{
						"COP": {Price: 799900},
					},
				},
			},
		},
		Questions: []catalog.Question{
			{ID: "1", Question: "¿La pantalla es AMOLED?", Answer: lo.ToPtr("Sí, es un panel AMOLED de 6.67 pulgadas.")},
		},
		Reviews: catalog.ReviewData{
			Rating:      4.6,
			ReviewCount: 214,
			Reviews: []catalog.Review{
				{
					ID:      1,
					Rating:  5,
					Date:    "2025-09-30",
					Content: "Increíble relación precio calidad.",
					Likes:   12,
				},
			},
		},
		PaymentMethods: catalog.PaymentMethods{
			Credit: []catalog.PaymentMethod{
				{Name: "Visa", Logo: "/static/img/pay-visa.svg"},
				{Name: "Mastercard", Logo: "/static/img/pay-mastercard.svg"},
			},
			Cash: []catalog.PaymentMethod{
				{Name: "Efecty", Logo: "/static/img/pay-efecty.svg"},
			},
		},
		Seller: catalog.Seller{
			Name:      "Tecno Import Store",
			Followers: 5200,
			Products:  120,
			Sales:     14000,
			Rating:    4.5,
		},
	},
}
