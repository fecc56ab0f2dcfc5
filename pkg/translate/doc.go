// Package translate converts attribute/value tables into flat numeric rows
// for logistic regression (LR) and support vector machine (SVM) learners,
// and maps learner predictions back to class values.
//
// # Encoders
//
// Every attribute gets one [Encoder] that owns a contiguous block of
// columns in the output row:
//
//   - [Standardizer] (continuous attributes): centres on the mean and, for
//     SVM, divides by the sample standard deviation.
//   - [Scalizer] (continuous class): maps [min, max] onto [-1, 1] for SVM.
//   - [Ordinalizer] (discrete class): maps label indices evenly onto [0, 1]
//     for LR and keeps them integer for SVM.
//   - [Binarizer] (discrete attributes): one column per label, one-hot.
//   - [Dummy] (discrete attributes): one column per label except the most
//     frequent one, which is encoded as all zeros.
//
// # Lifecycle
//
// A [Translation] is used in three steps:
//
//	tr, _ := translate.New(translate.ModeAuto)
//	err := tr.Analyse(table, weightID) // learn encoder statistics
//	tr.PrepareLR()                     // or PrepareSVM
//	rows, err := tr.Transform(table)
//
// Analysis happens once; the translation may then be prepared for either
// learner any number of times. Learned statistics persist to TOML with
// [Translation.Save] and [Load] so that new data can be encoded the same
// way. Attributes are resolved by reference first and by name second, so a
// translation learned on one table can encode another table with the same
// attribute names.
//
// # Missing values
//
// Unknown attribute values are replaced by a per-encoder substitute for LR.
// For SVM they are encoded as NaN, which [WriteLibSVM] omits from the
// sparse output. An unknown class value is encoded as [ClassMissing] for
// SVM.
package translate
