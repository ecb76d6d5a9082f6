// Package models holds the GORM persistence models and their mapping to
// domain aggregates. Index names match the SQL migrations so that unique
// violations can be classified by constraint name.
package models
