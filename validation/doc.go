// Package validation provides struct tag validation (go-playground/validator)
// and a programmatic collector of severity-ranked violations.
//
// # Struct Tag Validation
//
//	type User struct {
//	    ID   string `json:"id" validate:"required,cpf"`
//	    Name string `json:"name" validate:"required"`
//	}
//	err := validation.Validate(u)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("kafka.brokers", strings.Join(brokers, ","))
//	v.AddWarning("kafka.properties.linger.ms", "unknown setting")
//	err := v.Err() // only error-severity violations fail
package validation
