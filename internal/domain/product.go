package domain

import "time"

type Product struct {
	ProductID       string    `json:"id" dynamodbav:"product_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Price           float64   `json:"price" dynamodbav:"price"`
	Stock           int       `json:"stock" dynamodbav:"stock"`
	DiscountPercent float64   `json:"discount_percent" dynamodbav:"discount_percent"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ProductInput struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Stock           int     `json:"stock" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

type UpdateDiscountRequest struct {
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}
