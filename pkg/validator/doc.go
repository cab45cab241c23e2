// Package validator provides composable validation rules and a structured
// error type listing (location, message) pairs.
//
// Rules are plain values built by constructor functions and evaluated by
// [Apply]:
//
//	err := validator.Apply(
//	    validator.RequiredString("title", in.Title),
//	    validator.MaxLenString("title", in.Title, 100),
//	    validator.RequiredString("content", in.Content),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//	    // ve[0].Field == "title", ve[0].Message == "field required"
//	}
//
// Every error carries a translation key and values so messages can be
// localized with [ValidationErrors.Translate].
package validator
