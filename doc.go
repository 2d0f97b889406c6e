// Package main provides the entry point for the content-api service.
// It runs a fiber based JSON API that lists, creates, reads, updates, deletes
// and searches content records (id, unique name, location). Records are kept
// in a relational store accessed through gorm (MySQL, PostgreSQL or SQLite).
package main
