package utils

import (
	"reflect"

	reflections "github.com/oleiade/reflections"
	eris "github.com/rotisserie/eris"
)

var (
	ErrNotStruct  = eris.New("value passed to ApplyDefaults is not a struct")
	ErrNotPointer = eris.New("value passed to ApplyDefaults is not a pointer, so it cannot be modified")
)

// ApplyDefaults copies each field of defaults into s where s still holds the
// zero value. Nested structs, by value or by pointer, are filled recursively.
//
// s must be a pointer to a struct of the same type as defaults.
//
// See https://stackoverflow.com/a/49471736/9788634
func ApplyDefaults(s any, defaults any) error {
	if s == nil {
		return nil
	}

	val := reflect.ValueOf(s)
	if val.Kind() != reflect.Ptr {
		return ErrNotPointer
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return ErrNotStruct
	}

	defFieldValues, err := reflections.Items(defaults)
	if err != nil {
		return eris.Wrap(err, "failed to extract fields from defaults struct")
	}

	for i := 0; i < val.NumField(); i++ {
		fieldName := val.Type().Field(i).Name
		field := val.Field(i)
		dftValue, ok := defFieldValues[fieldName]
		if !ok || !field.CanSet() {
			continue
		}
		// Nothing to copy, and nil pointers cannot be recursed into.
		if dft := reflect.ValueOf(dftValue); !dft.IsValid() || dft.IsZero() {
			continue
		}

		switch {
		case field.Kind() == reflect.Ptr && field.Elem().Kind() == reflect.Struct:
			if err := ApplyDefaults(field.Interface(), dftValue); err != nil {
				return err
			}

		case field.Kind() == reflect.Struct:
			if err := ApplyDefaults(field.Addr().Interface(), dftValue); err != nil {
				return err
			}

		case field.IsZero():
			if err := reflections.SetField(s, fieldName, dftValue); err != nil {
				return eris.Wrapf(err, "failed to set default for field %q", fieldName)
			}
		}
	}

	return nil
}

// PointerOf allocates a new value to store v and returns a pointer to it.
// See https://github.com/xorcare/pointer
func PointerOf[Value any](v Value) *Value {
	return &v
}
