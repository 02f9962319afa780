package models

import (
	"errors"
	"fmt"
)

// Erreurs de validation : identifiants manquants ou malformés, rejetés
// avant tout accès au store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError : ressource inexistante (joueur, item, quête...).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// ItemInactiveError : l'item existe mais n'est plus en vente.
type ItemInactiveError struct {
	ItemID string
}

func (e *ItemInactiveError) Error() string {
	return fmt.Sprintf("shop item %s is not active", e.ItemID)
}

// PerUserLimitError : le joueur a atteint la limite d'achats pour cet item.
type PerUserLimitError struct {
	ItemID     string
	MaxPerUser int
}

func (e *PerUserLimitError) Error() string {
	return fmt.Sprintf("per-user purchase limit reached for item %s (max %d)", e.ItemID, e.MaxPerUser)
}

// OutOfStockError : le stock global de l'item est épuisé.
type OutOfStockError struct {
	ItemID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("shop item %s is out of stock", e.ItemID)
}

// InsufficientFundsError : solde de pièces insuffisant. CoinsNeeded permet
// à l'appelant d'afficher le montant manquant.
type InsufficientFundsError struct {
	Required    int64
	Available   int64
	CoinsNeeded int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient coins: required %d, available %d", e.Required, e.Available)
}

// InvariantViolationError signale une incohérence niveau/XP ou un solde
// négatif détecté à la lecture. Non récupérable localement : indique un
// contournement des primitives du Ledger ailleurs dans le système.
type InvariantViolationError struct {
	UserID  string
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation for player %s: %s", e.UserID, e.Message)
}

// Helpers de construction
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewItemInactiveError(itemID string) error {
	return &ItemInactiveError{ItemID: itemID}
}

func NewPerUserLimitError(itemID string, maxPerUser int) error {
	return &PerUserLimitError{ItemID: itemID, MaxPerUser: maxPerUser}
}

func NewOutOfStockError(itemID string) error {
	return &OutOfStockError{ItemID: itemID}
}

func NewInsufficientFundsError(required, available int64) error {
	return &InsufficientFundsError{
		Required:    required,
		Available:   available,
		CoinsNeeded: required - available,
	}
}

func NewInvariantViolationError(userID, message string) error {
	return &InvariantViolationError{UserID: userID, Message: message}
}

// IsNotFound vérifie si une erreur est une NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsValidation vérifie si une erreur est une ValidationError.
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}
