package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	Email    string             `bson:"email" json:"email" binding:"required,email"`
	Photo    string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
	Password string             `bson:"password,omitempty" json:"password,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Price is an amount in major currency units. Older documents may store it
// as a string or as something that is not a number at all. Numeric strings
// are read as their value and anything else as 0, the same rule the order
// stats aggregation applies.
type Price float64

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	*p = 0
	switch t {
	case bsontype.Double:
		if f, ok := rv.DoubleOK(); ok {
			*p = Price(f)
		}
	case bsontype.Int32:
		if n, ok := rv.Int32OK(); ok {
			*p = Price(n)
		}
	case bsontype.Int64:
		if n, ok := rv.Int64OK(); ok {
			*p = Price(n)
		}
	case bsontype.Decimal128:
		if d, ok := rv.Decimal128OK(); ok {
			*p = parsePrice(d.String())
		}
	case bsontype.String:
		if str, ok := rv.StringValueOK(); ok {
			*p = parsePrice(str)
		}
	}
	return nil
}

func parsePrice(s string) Price {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return Price(d.InexactFloat64())
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Gender      string             `bson:"gender" json:"gender"`
	Category    string             `bson:"category" json:"category"`
	Price       Price              `bson:"price" json:"price" binding:"gte=0"`
	Brand       string             `bson:"brand" json:"brand"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID string             `bson:"productId" json:"productId" binding:"required"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Rating    float64            `bson:"rating,omitempty" json:"rating,omitempty" binding:"gte=0,lte=5"`
	Review    string             `bson:"review" json:"review" binding:"required"`
	Date      time.Time          `bson:"date" json:"date"`
}

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email" binding:"required,email"`
	ProductID string             `bson:"productId" json:"productId" binding:"required"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     Price              `bson:"price" json:"price" binding:"gte=0"`
	Brand     string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Quantity  int                `bson:"quantity,omitempty" json:"quantity,omitempty" binding:"gte=0"`
}

// Booking statuses an admin may assign to a payment.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email          string             `bson:"email" json:"email" binding:"required,email"`
	Name           string             `bson:"name,omitempty" json:"name,omitempty"`
	Price          Price              `bson:"price" json:"price" binding:"gte=0"`
	TransactionID  string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
	CartIDs        []string           `bson:"cartIds" json:"cartIds"`
	ProductItemIDs []string           `bson:"productItemIds" json:"productItemIds"`
	Status         string             `bson:"status" json:"status" binding:"omitempty,oneof=pending confirmed completed canceled"`
	// CartsCleared is false between the payment insert and the cart cleanup.
	CartsCleared bool `bson:"cartsCleared" json:"cartsCleared"`
}

type AdminStats struct {
	Users        int64   `json:"users"`
	ProductItems int64   `json:"productItems"`
	Orders       int64   `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

type CategoryStat struct {
	Category string  `bson:"category" json:"category"`
	Quantity int64   `bson:"quantity" json:"quantity"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}

// Acknowledgments returned to clients after a write.

type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type PaymentResult struct {
	PaymentResult InsertResult `json:"paymentResult"`
	DeleteResult  DeleteResult `json:"deleteResult"`
}
