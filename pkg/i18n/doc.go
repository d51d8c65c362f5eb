// Package i18n renders validation failure messages from per-locale templates
// and negotiates the locale of an HTTP client.
//
// A Catalog starts with the built-in English templates (embedded YAML) and
// can be extended with LoadYAML or LoadFile:
//
//	es:
//	  required: "El campo :field es obligatorio."
//	  min:
//	    string: "El campo :field debe tener al menos :param caracteres."
//	  attributes:
//	    email: "correo electrónico"
//
// Templates are looked up by rule tag, first with a size kind suffix
// ("min.string"), then the bare tag, then "default". Missing keys fall back
// to the base language ("pt" for "pt-BR") and then to the fallback locale.
//
// Negotiate picks a supported locale from an Accept-Language header using
// golang.org/x/text/language; WithLocale and LocaleFromContext carry the
// result through a request.
package i18n
