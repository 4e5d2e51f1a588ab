package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Toda chamada remota tem timeout limitado: o coordenador nunca pode ficar
// pendurado esperando um serviço externo.
const remoteCallTimeout = 5 * time.Second

// Customer representa a resposta do customer-service
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product representa a resposta do product-service
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// CustomerClient abstrai o customer-service
type CustomerClient interface {
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
}

// ProductClient abstrai o product-service
type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	UpdateStock(ctx context.Context, productID string, stock int) error
}

// HTTPCustomerClient implementa CustomerClient via HTTP
type HTTPCustomerClient struct {
	client  *resty.Client
	baseURL string
}

// NewCustomerClient cria uma nova instância de HTTPCustomerClient
func NewCustomerClient(baseURL string) *HTTPCustomerClient {
	return &HTTPCustomerClient{
		client:  resty.New().SetTimeout(remoteCallTimeout),
		baseURL: baseURL,
	}
}

// GetCustomer valida a existência de um cliente. 404 vira ErrCustomerNotFound,
// qualquer outro erro vira UpstreamError.
func (c *HTTPCustomerClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	var customer Customer
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&customer).
		Get(fmt.Sprintf("%s/api/customers/%s", c.baseURL, customerID))
	if err != nil {
		return nil, &UpstreamError{Service: "customer", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrCustomerNotFound
	}
	if resp.IsError() {
		return nil, &UpstreamError{Service: "customer", Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	return &customer, nil
}

// HTTPProductClient implementa ProductClient via HTTP
type HTTPProductClient struct {
	client  *resty.Client
	baseURL string
}

// NewProductClient cria uma nova instância de HTTPProductClient
func NewProductClient(baseURL string) *HTTPProductClient {
	return &HTTPProductClient{
		client:  resty.New().SetTimeout(remoteCallTimeout),
		baseURL: baseURL,
	}
}

// GetProduct busca preço e estoque atuais de um produto
func (c *HTTPProductClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("%s/api/products/%s", c.baseURL, productID))
	if err != nil {
		return nil, &UpstreamError{Service: "product", Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, &ProductNotFoundError{ProductID: productID}
	}
	if resp.IsError() {
		return nil, &UpstreamError{Service: "product", Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	return &product, nil
}

// UpdateStock grava o novo valor absoluto de estoque de um produto.
// Aqui um 404 também é tratado como falha de upstream: o produto acabou de ser
// validado, sumir nesse intervalo é uma anomalia do registro, não do pedido.
func (c *HTTPProductClient) UpdateStock(ctx context.Context, productID string, stock int) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]int{"stock": stock}).
		Put(fmt.Sprintf("%s/api/products/%s", c.baseURL, productID))
	if err != nil {
		return &UpstreamError{Service: "product", Err: err}
	}
	if resp.IsError() {
		return &UpstreamError{Service: "product", Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
	return nil
}
