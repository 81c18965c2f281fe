// Package estimator implementa o motor de estimativa solar.
//
// O motor converte uma entrada (conta de luz ou lista de aparelhos) em um
// EstimationOutput imutável: dimensionamento do sistema, área, custo, conta da
// rede, payback e bateria. Project gera a projeção plurianual a partir desse
// resultado. Nenhuma função deste pacote faz I/O ou guarda estado.
//
// Todos os arredondamentos usam a mesma regra: meio para longe do zero sobre a
// representação decimal mais curta do valor (shopspring/decimal).
package estimator
