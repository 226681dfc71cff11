// Package roster adapts raw rows from a tabular store into typed
// domain.EmployeeRecord values. Header matching, trimming and id defaulting
// happen here so that the hierarchy algorithms only see clean records.
package roster
