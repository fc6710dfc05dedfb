package repository

var UniqueViolation = uniqueViolation
