// Package customer contains the Customer aggregate, its value objects, the
// customer error taxonomy and the repository port implemented by storage adapters.
package customer
