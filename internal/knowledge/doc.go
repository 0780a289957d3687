// Package knowledge holds the agricultural knowledge base and the advice
// engine rules built on it: keyword and TF-IDF lookup of solutions, the
// isiZulu keyword advice table, and randomized general tips.
package knowledge
